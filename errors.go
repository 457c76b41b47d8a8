package household

import "fmt"

// ConfigurationError reports a currency that cannot be converted: no rate and no default, or a
// zero rate used as a divisor.
type ConfigurationError struct {
	Currency string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for currency %q: %s", e.Currency, e.Reason)
}

// NotFoundError reports a reference to an account, a category or a budget line that does not
// exist.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %v not found", e.Kind, e.ID) }

// ValidationError reports a malformed input: a period string, a currency code, a negative
// amount.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
