package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/household/docs"
	"google.golang.org/genai"
)

// Topic lets the model read the help topics explaining how every figure is computed.
var Topic = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Topic",
		Description: `Topic returns the documentation of how the figures of the household reports are
computed. Available topics: ` + strings.Join(docs.List(), ", ") + `.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The name of the topic.",
				},
			},
			Required: []string{"name"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The markdown content of the topic.",
		},
	},
	Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
		name, ok := args["name"].(string)
		if !ok {
			return failure(id, "Topic", fmt.Errorf("argument 'name' is not a string but %T", args["name"]))
		}
		content, err := docs.Topic(name)
		if err != nil {
			return failure(id, "Topic", err)
		}
		return success(id, "Topic", content)
	},
}
