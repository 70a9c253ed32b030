package jsonobj

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Style selects how a member key is separated from its value.
type Style int

const (
	// StyleJSON writes `"key": value`, as encoding/json does.
	StyleJSON Style = iota
	// StyleXcode writes `"key" : value`, as Xcode does for string catalogs.
	StyleXcode
)

var errUnbalanced = errors.New("jsonobj: unbalanced JSON input")

func (s Style) String() string {
	if s == StyleXcode {
		return "xcode"
	}
	return "json"
}

func (s Style) separator() string {
	if s == StyleXcode {
		return " : "
	}
	return ": "
}

// ParseStyle accepts "json" or "xcode".
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return StyleJSON, nil
	case "xcode":
		return StyleXcode, nil
	default:
		return StyleJSON, fmt.Errorf("jsonobj: unknown style %q", name)
	}
}

// DetectStyle looks at the first key separator outside a string. Documents
// without one are reported as StyleJSON.
func DetectStyle(src []byte) Style {
	inString, escaped := false, false
	for i, c := range src {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ':':
			if i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
				return StyleXcode
			}
			return StyleJSON
		}
	}
	return StyleJSON
}

// Indent appends an indented form of the JSON in src to dst. Whitespace
// outside strings is dropped and rewritten; empty objects and arrays stay on
// one line.
func Indent(dst *bytes.Buffer, src []byte, indent string, style Style) error {
	depth := 0
	inString, escaped := false, false
	newline := func() {
		dst.WriteByte('\n')
		for range depth {
			dst.WriteString(indent)
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		if inString {
			dst.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case ' ', '\t', '\n', '\r':
		case '"':
			inString = true
			dst.WriteByte(c)
		case '{', '[':
			dst.WriteByte(c)
			j := skipSpace(src, i+1)
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				dst.WriteByte(src[j])
				i = j
				continue
			}
			depth++
			newline()
		case '}', ']':
			depth--
			if depth < 0 {
				return errUnbalanced
			}
			newline()
			dst.WriteByte(c)
		case ',':
			dst.WriteByte(c)
			newline()
		case ':':
			dst.WriteString(style.separator())
		default:
			dst.WriteByte(c)
		}
	}
	if depth != 0 || inString {
		return errUnbalanced
	}
	return nil
}

func skipSpace(src []byte, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
