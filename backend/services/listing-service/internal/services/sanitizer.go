package services

import (
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"
	"golang.org/x/text/unicode/norm"
)

/*
Sanitizer normalizes inbound payload values. Free text is NFC-normalized,
stripped of all markup and trimmed. Numbers, booleans and dates are coerced
from whatever JSON shape they arrived in; a value that cannot be coerced is
treated as absent. Only the Require* variants ever fail, and only for the
field the caller marks as mandatory.
*/
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) clean(raw string) string {
	out := norm.NFC.String(raw)
	out = s.policy.Sanitize(out)
	return strings.TrimSpace(out)
}

// Text returns nil for nil input or for text that is empty once cleaned.
func (s *Sanitizer) Text(raw *string) *string {
	if raw == nil {
		return nil
	}
	out := s.clean(*raw)
	if out == "" {
		return nil
	}
	return &out
}

func (s *Sanitizer) RequireText(field string, raw *string) (string, error) {
	out := s.Text(raw)
	if out == nil {
		return "", missingField(field)
	}
	return *out, nil
}

// TextList cleans each entry and drops the ones left empty. Order is kept.
func (s *Sanitizer) TextList(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if v := s.clean(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// scalar unwraps strings so that "  12 " and "" coerce like 12 and nil.
func (s *Sanitizer) scalar(raw any) (any, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case string:
		v = s.clean(v)
		if v == "" {
			return nil, false
		}
		return v, true
	case *string:
		if v == nil {
			return nil, false
		}
		return s.scalar(*v)
	default:
		return v, true
	}
}

func (s *Sanitizer) Float(raw any) *float64 {
	v, ok := s.scalar(raw)
	if !ok {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

func (s *Sanitizer) RequireFloat(field string, raw any) (float64, error) {
	if _, ok := s.scalar(raw); !ok {
		return 0, missingField(field)
	}
	f := s.Float(raw)
	if f == nil {
		return 0, invalidField(field, "must be a number")
	}
	return *f, nil
}

// RequireNonNegativeFloat is RequireFloat for measures such as size.
func (s *Sanitizer) RequireNonNegativeFloat(field string, raw any) (float64, error) {
	f, err := s.RequireFloat(field, raw)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, invalidField(field, "must not be negative")
	}
	return f, nil
}

func (s *Sanitizer) Int(raw any) *int {
	v, ok := s.scalar(raw)
	if !ok {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil
	}
	return &n
}

func (s *Sanitizer) RequireInt(field string, raw any) (int, error) {
	if _, ok := s.scalar(raw); !ok {
		return 0, missingField(field)
	}
	n := s.Int(raw)
	if n == nil {
		return 0, invalidField(field, "must be an integer")
	}
	return *n, nil
}

func (s *Sanitizer) Bool(raw any) *bool {
	v, ok := s.scalar(raw)
	if !ok {
		return nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil
	}
	return &b
}

func (s *Sanitizer) Date(raw any) *time.Time {
	v, ok := s.scalar(raw)
	if !ok {
		return nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}
