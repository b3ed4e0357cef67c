package schema

import "fmt"

// ValidationKind classifies a validation failure
type ValidationKind int

const (
	EmptyField ValidationKind = iota + 1
	FieldTooLong
	NegativeCost
)

func (k ValidationKind) String() string {
	switch k {
	case EmptyField:
		return "empty field"
	case FieldTooLong:
		return "field too long"
	case NegativeCost:
		return "negative cost"
	default:
		return "unknown validation error"
	}
}

// Sentinels for errors.Is. Any *ValidationError matches the sentinel of its kind.
var (
	ErrEmptyField   = &ValidationError{Kind: EmptyField}
	ErrFieldTooLong = &ValidationError{Kind: FieldTooLong}
	ErrNegativeCost = &ValidationError{Kind: NegativeCost}
)

// ValidationError reports why a record was rejected
type ValidationError struct {
	Kind  ValidationKind
	Field string
	Max   int // width limit, set for FieldTooLong
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyField:
		return fmt.Sprintf("%s must not be empty", e.Field)
	case FieldTooLong:
		return fmt.Sprintf("%s must be at most %d characters", e.Field, e.Max)
	case NegativeCost:
		return "cost cannot be negative"
	default:
		return e.Kind.String()
	}
}

// Is matches on kind only, so errors.Is(err, ErrEmptyField) holds for every field.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
