package tree

import "errors"

// Sentinel kinds for tree errors.
var (
	ErrParse   = errors.New("parse error")
	ErrNilNode = errors.New("nil node")
)

// ParseError reports a document that is not valid JSON or does not match the
// node/leaf shape. Path locates the offending node, e.g. "root.children[1]".
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "parse error: " + e.Err.Error()
	}
	return "parse error at " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) hold for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
