package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Document keys.
const (
	keyRoot     = "root"
	keyChildren = "children"
	keyName     = "name"
	keyLength   = "length"
)

// MaxDepth bounds how deeply nodes may nest in a loaded document.
const MaxDepth = 10_000

// Load parses a {"root": <node>} document. A node with a "children" array is
// internal; otherwise a node with a string "name" is a leaf. Either may carry
// a numeric "length", which defaults to 0. Unknown keys are ignored, and a
// "children" value that is not an array is ignored as well.
//
// The document is read in one pass over a token stream. Every failure is a
// *ParseError; no partial tree is returned.
func Load(data []byte) (Node, error) {
	d := &decoder{dec: json.NewDecoder(bytes.NewReader(data))}
	root, err := d.document()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type decoder struct {
	dec *json.Decoder
}

func (d *decoder) document() (Node, error) {
	if err := d.open('{', "a JSON object"); err != nil {
		return nil, &ParseError{Err: err}
	}

	var root Node
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if key != keyRoot {
			if err := d.skip(); err != nil {
				return nil, &ParseError{Err: err}
			}
			continue
		}
		if root, err = d.node(keyRoot, 0); err != nil {
			return nil, err
		}
	}
	if _, err := d.token(); err != nil {
		return nil, &ParseError{Err: err}
	}
	if root == nil {
		return nil, &ParseError{Err: errors.New(`missing field "root"`)}
	}

	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after document")
		}
		return nil, &ParseError{Err: err}
	}
	return root, nil
}

func (d *decoder) node(path string, depth int) (Node, error) {
	if depth > MaxDepth {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("tree is nested deeper than %d levels", MaxDepth)}
	}
	if err := d.open('{', "a node object"); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var (
		length      float64
		name        *string
		children    []Node
		hasChildren bool
	)
	for d.dec.More() {
		key, err := d.key()
		if err == nil {
			switch key {
			case keyLength:
				length, err = d.length()
			case keyName:
				name, err = d.name()
			case keyChildren:
				children, hasChildren, err = d.children(path, depth)
			default:
				err = d.skip()
			}
		}
		if err != nil {
			return nil, at(path, err)
		}
	}
	if _, err := d.token(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	switch {
	case hasChildren:
		return NewInternal(length, children...), nil
	case name != nil:
		return NewLeaf(*name, length), nil
	default:
		return nil, &ParseError{Path: path, Err: errors.New(`node has neither a "children" array nor a "name"`)}
	}
}

func (d *decoder) length() (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, fmt.Errorf("length: %w", err)
	}
	v, ok := tok.(float64)
	if !ok {
		return 0, fmt.Errorf("length: expected a number, got %s", describe(tok))
	}
	return v, nil
}

// name returns nil for an explicit null.
func (d *decoder) name() (*string, error) {
	tok, err := d.token()
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	switch v := tok.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	default:
		return nil, fmt.Errorf("name: expected a string, got %s", describe(tok))
	}
}

// children reports ok=false when the value is not an array, so that the node
// falls back to being a leaf.
func (d *decoder) children(path string, depth int) ([]Node, bool, error) {
	tok, err := d.token()
	if err != nil {
		return nil, false, fmt.Errorf("children: %w", err)
	}
	if tok != json.Delim('[') {
		if tok == json.Delim('{') {
			return nil, false, d.skipNested()
		}
		return nil, false, nil
	}

	out := []Node{}
	for i := 0; d.dec.More(); i++ {
		child, err := d.node(path+".children["+strconv.Itoa(i)+"]", depth+1)
		if err != nil {
			return nil, false, err
		}
		out = append(out, child)
	}
	if _, err := d.token(); err != nil {
		return nil, false, fmt.Errorf("children: %w", err)
	}
	return out, true, nil
}

func (d *decoder) open(delim json.Delim, want string) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	if tok != delim {
		return fmt.Errorf("expected %s, got %s", want, describe(tok))
	}
	return nil
}

func (d *decoder) key() (string, error) {
	tok, err := d.token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected an object key, got %s", describe(tok))
	}
	return key, nil
}

// skip consumes one value of any shape.
func (d *decoder) skip() error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	if tok == json.Delim('{') || tok == json.Delim('[') {
		return d.skipNested()
	}
	return nil
}

// skipNested consumes the rest of an object or array whose opening
// delimiter has already been read.
func (d *decoder) skipNested() error {
	for depth := 1; depth > 0; {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

// token is Decoder.Token with a truncated document reported as such.
func (d *decoder) token() (json.Token, error) {
	tok, err := d.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

// at tags err with path unless a nested node already did.
func at(path string, err error) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		return err
	}
	return &ParseError{Path: path, Err: err}
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		if v == '[' {
			return "array"
		}
		if v == '{' {
			return "object"
		}
		return strconv.Quote(v.String())
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", tok)
	}
}
