// Package uritemplate matches concrete resource URIs against templates
// containing {variable} placeholder segments, e.g. "faqs://{q}".
package uritemplate

import (
	"fmt"
	"strings"
)

const schemeSeparator = "://"

// segment is one path element of a template: either a literal that must match
// exactly, or a variable that binds any non-empty segment.
type segment struct {
	literal  string
	variable string
}

// Template is a parsed URI template. A template with zero variables behaves
// as a literal URI.
type Template struct {
	raw      string
	scheme   string
	segments []segment
	vars     []string
}

// Parse parses a URI template. Placeholders must occupy whole path segments
// and variable names must be unique within one template.
func Parse(raw string) (*Template, error) {
	scheme, rest, ok := strings.Cut(raw, schemeSeparator)
	if !ok {
		return nil, fmt.Errorf("template %q has no scheme separator", raw)
	}

	if scheme == "" {
		return nil, fmt.Errorf("template %q has an empty scheme", raw)
	}

	parts := strings.Split(rest, "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]struct{}, 2)

	var vars []string

	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, fmt.Errorf("template %q has an unnamed placeholder", raw)
			}

			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("template %q repeats variable %q", raw, name)
			}

			seen[name] = struct{}{}
			vars = append(vars, name)
			segments = append(segments, segment{variable: name})

			continue
		}

		if strings.ContainsAny(part, "{}") {
			return nil, fmt.Errorf("template %q mixes literal text and placeholder in segment %q", raw, part)
		}

		segments = append(segments, segment{literal: part})
	}

	return &Template{
		raw:      raw,
		scheme:   scheme,
		segments: segments,
		vars:     vars,
	}, nil
}

// MustParse is Parse that panics on error, for templates known at compile
// time.
func MustParse(raw string) *Template {
	tmpl, err := Parse(raw)
	if err != nil {
		panic(err)
	}

	return tmpl
}

// Raw returns the template string as registered.
func (t *Template) Raw() string {
	return t.raw
}

// Variables returns the placeholder names in template order.
func (t *Template) Variables() []string {
	return append([]string(nil), t.vars...)
}

// IsLiteral reports whether the template contains no placeholders.
func (t *Template) IsLiteral() bool {
	return len(t.vars) == 0
}

// Match attempts a segment-wise match of uri against the template. Literal
// segments must match exactly; each placeholder binds one non-empty segment.
// On success it returns the bound variables (never nil).
func (t *Template) Match(uri string) (map[string]string, bool) {
	scheme, rest, ok := strings.Cut(uri, schemeSeparator)
	if !ok || scheme != t.scheme {
		return nil, false
	}

	parts := strings.Split(rest, "/")
	if len(parts) != len(t.segments) {
		return nil, false
	}

	vars := make(map[string]string, len(t.vars))

	for i, seg := range t.segments {
		if seg.variable != "" {
			if parts[i] == "" {
				return nil, false
			}

			vars[seg.variable] = parts[i]

			continue
		}

		if parts[i] != seg.literal {
			return nil, false
		}
	}

	return vars, true
}
