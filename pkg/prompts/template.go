// Package prompts holds named prompt templates and renders them with
// caller-supplied variables.
//
// Placeholders are written {name}, where name is a Go-style identifier.
// Literal braces are written {{ and }}. Rendering is fail-closed: a
// placeholder without a binding is an error, never an empty substitution.
package prompts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by *TemplateError via errors.Is.
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrMissingVariable   = errors.New("missing variable")
	ErrMalformedTemplate = errors.New("malformed template")
)

// TemplateError reports a template lookup, parse, or substitution failure.
// These are caller bugs and are never retried.
type TemplateError struct {
	Template string
	Variable string // Set for ErrMissingVariable.
	Reason   string // Set for ErrMalformedTemplate.
	Err      error  // One of the sentinel errors above.
}

func (e *TemplateError) Error() string {
	switch {
	case e.Variable != "":
		return fmt.Sprintf("prompts: template %q: %v %q", e.Template, e.Err, e.Variable)
	case e.Reason != "":
		return fmt.Sprintf("prompts: template %q: %v: %s", e.Template, e.Err, e.Reason)
	default:
		return fmt.Sprintf("prompts: %v: %q", e.Err, e.Template)
	}
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Vars binds placeholder names to values. Values are formatted with fmt.Sprint.
type Vars map[string]any

// Template is a named prompt body. Parse validates it up front; a Template
// built as a literal is parsed when first rendered.
type Template struct {
	Name string
	Body string

	segments []segment
}

// segment is either literal text or a placeholder reference.
type segment struct {
	text        string
	placeholder bool
}

// Parse validates body and returns a Template ready to render.
func Parse(name, body string) (Template, error) {
	if strings.TrimSpace(name) == "" {
		return Template{}, &TemplateError{Template: name, Reason: "name is empty", Err: ErrMalformedTemplate}
	}

	segs, err := parseSegments(body)
	if err != nil {
		return Template{}, &TemplateError{Template: name, Reason: err.Error(), Err: ErrMalformedTemplate}
	}

	return Template{Name: name, Body: body, segments: segs}, nil
}

func parseSegments(body string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(body); i++ {
		c := body[i]

		switch c {
		case '{':
			if i+1 < len(body) && body[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}

			end := strings.IndexByte(body[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d", i)
			}

			name := body[i+1 : i+1+end]
			if !isIdent(name) {
				return nil, fmt.Errorf("invalid placeholder %q at offset %d", name, i)
			}

			flush()
			segs = append(segs, segment{text: name, placeholder: true})
			i += end + 1
		case '}':
			if i+1 < len(body) && body[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}

	flush()

	return segs, nil
}

// parsed returns the template segments, parsing Body if Parse was bypassed.
func (t Template) parsed() ([]segment, error) {
	if t.segments != nil || t.Body == "" {
		return t.segments, nil
	}

	segs, err := parseSegments(t.Body)
	if err != nil {
		return nil, &TemplateError{Template: t.Name, Reason: err.Error(), Err: ErrMalformedTemplate}
	}

	return segs, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Placeholders returns the distinct placeholder names in order of first use.
// A malformed literal Template has none.
func (t Template) Placeholders() []string {
	segs, err := t.parsed()
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})

	var names []string
	for _, s := range segs {
		if !s.placeholder {
			continue
		}
		if _, ok := seen[s.text]; ok {
			continue
		}
		seen[s.text] = struct{}{}
		names = append(names, s.text)
	}

	return names
}

// Render substitutes vars into the template. Every placeholder must be bound;
// extra variables are ignored.
func (t Template) Render(vars Vars) (string, error) {
	segs, err := t.parsed()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(t.Body))

	for _, s := range segs {
		if !s.placeholder {
			sb.WriteString(s.text)
			continue
		}

		v, ok := vars[s.text]
		if !ok {
			return "", &TemplateError{Template: t.Name, Variable: s.text, Err: ErrMissingVariable}
		}
		sb.WriteString(fmt.Sprint(v))
	}

	return sb.String(), nil
}
