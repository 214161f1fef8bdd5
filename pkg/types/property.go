package types

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"time"
)

// Property value kinds. Each kind constrains the shape of Value and, for
// some kinds, requires entries in Config.
const (
	KindText        = "text"
	KindLongText    = "long-text"
	KindNumber      = "number"
	KindDate        = "date"
	KindDatetime    = "datetime"
	KindSelect      = "select"
	KindMultiSelect = "multi-select"
	KindCheckbox    = "checkbox"
	KindURL         = "url"
	KindEmail       = "email"
	KindFile        = "file"
	KindAIGenerated = "ai-generated"
	KindCurrency    = "currency"
	KindRating      = "rating"
)

var validKinds = map[string]bool{
	KindText:        true,
	KindLongText:    true,
	KindNumber:      true,
	KindDate:        true,
	KindDatetime:    true,
	KindSelect:      true,
	KindMultiSelect: true,
	KindCheckbox:    true,
	KindURL:         true,
	KindEmail:       true,
	KindFile:        true,
	KindAIGenerated: true,
	KindCurrency:    true,
	KindRating:      true,
}

// IsValidKind reports whether k is a recognized property value kind.
func IsValidKind(k string) bool {
	return validKinds[k]
}

// PropertyValue is a discriminated union: Kind selects the semantic type of
// Value, and Config optionally constrains or describes it (select options,
// currency ISO code). The wire form is {"type": ..., "value": ...,
// "config": ...} and must round-trip losslessly; the field names are a hard
// compatibility boundary with stored data.
type PropertyValue struct {
	Kind   string         `json:"type"`
	Value  any            `json:"value"`
	Config map[string]any `json:"config,omitempty"`
}

// Validate checks that Value matches the shape required by Kind and that
// kind-specific Config requirements hold. Stored shapes are re-validated at
// the boundary on every write; reads never trust stored data blindly.
func (pv PropertyValue) Validate() error {
	if !validKinds[pv.Kind] {
		return fmt.Errorf("%w: unknown property kind %q", ErrValidation, pv.Kind)
	}
	if pv.Value == nil {
		// All kinds accept an unset value.
		return nil
	}

	switch pv.Kind {
	case KindText, KindLongText, KindFile, KindAIGenerated:
		if _, ok := pv.Value.(string); !ok {
			return kindError(pv.Kind, "string", pv.Value)
		}

	case KindNumber, KindRating, KindCurrency:
		if !isNumeric(pv.Value) {
			return kindError(pv.Kind, "number", pv.Value)
		}
		if pv.Kind == KindCurrency {
			code, _ := pv.Config["code"].(string)
			if len(code) != 3 {
				return fmt.Errorf("%w: currency requires a 3-letter ISO code in config", ErrValidation)
			}
		}

	case KindDate:
		s, ok := pv.Value.(string)
		if !ok {
			return kindError(pv.Kind, "YYYY-MM-DD string", pv.Value)
		}
		if _, err := time.Parse(DayFormat, s); err != nil {
			return fmt.Errorf("%w: date %q is not a valid YYYY-MM-DD day", ErrValidation, s)
		}

	case KindDatetime:
		s, ok := pv.Value.(string)
		if !ok {
			return kindError(pv.Kind, "RFC 3339 string", pv.Value)
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("%w: datetime %q is not RFC 3339", ErrValidation, s)
		}

	case KindSelect:
		s, ok := pv.Value.(string)
		if !ok {
			return kindError(pv.Kind, "string", pv.Value)
		}
		options := stringList(pv.Config["options"])
		if len(options) == 0 {
			return fmt.Errorf("%w: select requires a non-empty option list in config", ErrValidation)
		}
		if !containsString(options, s) {
			return fmt.Errorf("%w: select value %q is not among configured options", ErrValidation, s)
		}

	case KindMultiSelect:
		values := stringList(pv.Value)
		if values == nil {
			return kindError(pv.Kind, "list of strings", pv.Value)
		}

	case KindCheckbox:
		if _, ok := pv.Value.(bool); !ok {
			return kindError(pv.Kind, "boolean", pv.Value)
		}

	case KindURL:
		s, ok := pv.Value.(string)
		if !ok {
			return kindError(pv.Kind, "string", pv.Value)
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("%w: %q is not an absolute URL", ErrValidation, s)
		}

	case KindEmail:
		s, ok := pv.Value.(string)
		if !ok {
			return kindError(pv.Kind, "string", pv.Value)
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return fmt.Errorf("%w: %q is not a valid email address", ErrValidation, s)
		}
	}

	return nil
}

// TextValue builds a text property value.
func TextValue(s string) PropertyValue {
	return PropertyValue{Kind: KindText, Value: s}
}

// LongTextValue builds a long-text property value.
func LongTextValue(s string) PropertyValue {
	return PropertyValue{Kind: KindLongText, Value: s}
}

// DateValue builds a date property value from a YYYY-MM-DD string.
func DateValue(day string) PropertyValue {
	return PropertyValue{Kind: KindDate, Value: day}
}

// CheckboxValue builds a checkbox property value.
func CheckboxValue(b bool) PropertyValue {
	return PropertyValue{Kind: KindCheckbox, Value: b}
}

// NumberValue builds a number property value.
func NumberValue(n float64) PropertyValue {
	return PropertyValue{Kind: KindNumber, Value: n}
}

func kindError(kind, want string, got any) error {
	return fmt.Errorf("%w: %s value must be a %s, got %T", ErrValidation, kind, want, got)
}

// isNumeric accepts the numeric representations that survive JSON decoding
// and direct construction in Go.
func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}

// stringList coerces a []string or a JSON-decoded []any of strings.
// Returns nil when v has any other shape.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
