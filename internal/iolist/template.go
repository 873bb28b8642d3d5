package iolist

import (
	"errors"
	"fmt"
	"strings"

	"iolist/internal/domain"
)

// Placeholder names accepted in catalog templates.
const (
	PlaceholderFullText = "full_text"
	PlaceholderPosition = "position"
	PlaceholderNum      = "num"
)

// templateErrorPrefix marks a signal name whose template could not be rendered.
const templateErrorPrefix = "Error: "

var (
	errUnbalancedBrace = errors.New("unbalanced brace")
	errEmptyField      = errors.New("empty replacement field")
)

// unknownPlaceholderError names a field the template values cannot satisfy.
type unknownPlaceholderError struct {
	field string
}

func (e *unknownPlaceholderError) Error() string {
	return fmt.Sprintf("unsupported placeholder %q", e.field)
}

// renderTemplate substitutes {name} fields from values. "{{" and "}}" are
// literal braces. Fields carrying a format spec, a conversion or an index
// are rejected along with names missing from values.
func renderTemplate(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", errUnbalancedBrace
			}
			field := tmpl[i+1 : i+1+end]
			if field == "" {
				return "", errEmptyField
			}
			v, ok := values[field]
			if !ok {
				return "", &unknownPlaceholderError{field: field}
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errUnbalancedBrace
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// renderOrSentinel renders tmpl, degrading to "Error: <tmpl>" on failure.
func renderOrSentinel(tmpl string, values map[string]string) string {
	out, err := renderTemplate(tmpl, values)
	if err != nil {
		return templateErrorPrefix + tmpl
	}
	return out
}

// IsTemplateError reports whether name is a degraded signal name.
func IsTemplateError(name string) bool {
	return strings.HasPrefix(name, templateErrorPrefix)
}

// positionLocation returns the part of a position code after the first dot,
// up to a second dot if any, or the whole code when it has none.
func positionLocation(position string) string {
	parts := strings.Split(position, ".")
	if len(parts) < 2 {
		return position
	}
	return parts[1]
}

// channelNumber returns the segment of text after the first underscore, up
// to the next underscore, or "1" when text has none.
func channelNumber(text string) string {
	parts := strings.Split(text, "_")
	if len(parts) < 2 {
		return "1"
	}
	return parts[1]
}

// ExpandPorts instantiates the input and output templates of def for one
// attribute text. Output templates never see {full_text}.
func ExpandPorts(def *domain.ComponentDefinition, text, position string) (inputs, outputs []string) {
	loc := positionLocation(position)
	num := channelNumber(text)

	inputValues := map[string]string{
		PlaceholderFullText: text,
		PlaceholderPosition: loc,
		PlaceholderNum:      num,
	}
	outputValues := map[string]string{
		PlaceholderPosition: loc,
		PlaceholderNum:      num,
	}

	inputs = make([]string, 0, len(def.Inputs))
	for _, tmpl := range def.Inputs {
		inputs = append(inputs, renderOrSentinel(tmpl, inputValues))
	}
	outputs = make([]string, 0, len(def.Outputs))
	for _, tmpl := range def.Outputs {
		outputs = append(outputs, renderOrSentinel(tmpl, outputValues))
	}
	return inputs, outputs
}
