package analyzer

import (
	"errors"
	"fmt"
)

// ErrNetwork covers transport failures and empty responses from the analyze
// function. An empty body is indistinguishable from a dropped connection for
// the caller, so it is classed here rather than as a decode failure.
var ErrNetwork = errors.New("analysis request failed")

type DecodeKind string

const (
	DecodeMissingKey   DecodeKind = "missing key"
	DecodeTypeMismatch DecodeKind = "type mismatch"
	DecodeCorrupted    DecodeKind = "corrupted data"
)

// DecodeError is a response-shape failure. The kind and detail are for logs;
// callers surface one generic message regardless of kind.
type DecodeError struct {
	Kind   DecodeKind
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding analysis response: %s: %s", e.Kind, e.Detail)
}
