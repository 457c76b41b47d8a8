// Package advisor asks Gemini to comment household reports.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/household/logger"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// maxCalls bounds the function calls of a single review.
const maxCalls = 10

const instruction = `You are a personal finance advisor reviewing a household's reports.
The user gives you one or more markdown reports. Comment them in a few short paragraphs:
what changed, what stands out, and what deserves attention. Quote the figures you comment.
Never invent figures that are not in the reports. When you are unsure how a figure is
computed, read its documentation with the Topic tool before commenting it.
Answer in markdown.`

// sender is the part of a chat session used by the advisor.
type sender interface {
	Send(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)
}

// Advisor reviews reports with a Gemini model.
type Advisor struct {
	Model   string
	Config  *genai.GenerateContentConfig
	Library Library
}

// New returns an advisor using model, DefaultModel when empty, and the Topic tool.
func New(model string) *Advisor {
	if model == "" {
		model = DefaultModel
	}
	tools := []Function{Topic}
	return &Advisor{
		Model: model,
		Config: &genai.GenerateContentConfig{
			Tools:             []*genai.Tool{{FunctionDeclarations: NewDeclarations(tools)}},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		},
		Library: NewLibrary(tools),
	}
}

// Review returns the advisor's commentary of reports, focused on question when not empty.
func (a *Advisor) Review(ctx context.Context, client *genai.Client, question string, reports ...string) (string, error) {
	chat, err := client.Chats.Create(ctx, a.Model, a.Config, nil)
	if err != nil {
		return "", fmt.Errorf("could not start a chat with %s: %w", a.Model, err)
	}
	return a.review(ctx, chat, question, reports...)
}

func (a *Advisor) review(ctx context.Context, chat sender, question string, reports ...string) (string, error) {
	if len(reports) == 0 {
		return "", errors.New("nothing to review")
	}
	var prompt strings.Builder
	if question != "" {
		prompt.WriteString(question)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString(strings.Join(reports, "\n\n---\n\n"))

	content, err := a.ask(ctx, chat, &genai.Part{Text: prompt.String()})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// ask sends parts and answers the function calls of the model until it replies.
func (a *Advisor) ask(ctx context.Context, chat sender, parts ...*genai.Part) (*genai.Content, error) {
	log := logger.FromContext(ctx)
	for range maxCalls {
		resp, err := chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from %s", a.Model)
		}
		content := resp.Candidates[0].Content

		var responses []*genai.Part
		for _, p := range content.Parts {
			if p.FunctionCall == nil {
				continue
			}
			if a.Library == nil {
				return nil, fmt.Errorf("%s called %s but no function is available", a.Model, p.FunctionCall.Name)
			}
			log.Debug().Str("function", p.FunctionCall.Name).Any("args", p.FunctionCall.Args).Msg("function call")
			responses = append(responses, &genai.Part{FunctionResponse: a.Library(ctx, p.FunctionCall)})
		}
		if len(responses) == 0 {
			return content, nil
		}
		parts = responses
	}
	return nil, fmt.Errorf("%s made more than %d function calls", a.Model, maxCalls)
}
