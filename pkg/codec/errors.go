package codec

import "fmt"

// DecodeKind classifies a decode failure
type DecodeKind int

const (
	WrongBlockLength DecodeKind = iota + 1
	MalformedCost
)

func (k DecodeKind) String() string {
	switch k {
	case WrongBlockLength:
		return "wrong block length"
	case MalformedCost:
		return "malformed cost"
	default:
		return "unknown decode error"
	}
}

// Sentinels for errors.Is
var (
	ErrWrongBlockLength = &DecodeError{Kind: WrongBlockLength}
	ErrMalformedCost    = &DecodeError{Kind: MalformedCost}
)

// DecodeError reports a block that could not be turned back into a record
type DecodeError struct {
	Kind   DecodeKind
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is matches on kind only
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
