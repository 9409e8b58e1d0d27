// Package rules implements the field-level validation rule engine for
// census records. Each field name maps to a declarative Rule; validation
// compares the trimmed string form of the input against the rule, except
// for the integer kinds which parse after shape checks.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the validation strategy for a rule.
type Kind int

const (
	// KindText caps the value length.
	KindText Kind = iota
	// KindOptions restricts the value to a small fixed set.
	KindOptions
	// KindRange restricts the value to a generated contiguous code range.
	KindRange
	// KindCustom restricts the value to an irregular code set.
	KindCustom
	// KindIntRange parses the value as an integer and bounds it.
	KindIntRange
	// KindPaddedNumber requires an exact-length all-digit value whose
	// integer value lies within [Min, Max].
	KindPaddedNumber
	// KindListPaddedNumber requires an exact-length all-digit value that
	// is a member of an externally loaded code list.
	KindListPaddedNumber
)

// Rule is the declarative validator for one field.
type Rule struct {
	Kind        Kind
	Allowed     map[string]struct{}
	MaxLength   int
	Length      int
	Min         int
	Max         int
	AllowBlank  bool
	Description string
}

// DisplayNameFunc resolves a database field name to the human column name
// used in error messages.
type DisplayNameFunc func(field string) string

// Set holds the rule table plus the primary-key and non-editable field
// configuration for the edited table.
type Set struct {
	rules       map[string]Rule
	pkFields    []string
	nonEditable map[string]struct{}
	displayName DisplayNameFunc
}

// New builds a Set from an explicit rule table.
func New(table map[string]Rule, pkFields, nonEditable []string, displayName DisplayNameFunc) *Set {
	if displayName == nil {
		displayName = func(field string) string { return field }
	}
	ne := make(map[string]struct{}, len(nonEditable))
	for _, f := range nonEditable {
		ne[f] = struct{}{}
	}
	return &Set{
		rules:       table,
		pkFields:    append([]string(nil), pkFields...),
		nonEditable: ne,
		displayName: displayName,
	}
}

// PKFields returns the ordered logical primary-key field names.
func (s *Set) PKFields() []string {
	return s.pkFields
}

// IsPKField reports whether field is part of the logical primary key.
func (s *Set) IsPKField(field string) bool {
	for _, pk := range s.pkFields {
		if pk == field {
			return true
		}
	}
	return false
}

// IsEditable reports whether a field may be edited at all. Primary-key
// fields and configured non-editable fields are rejected at the cell level.
func (s *Set) IsEditable(field string) bool {
	if s.IsPKField(field) {
		return false
	}
	_, ok := s.nonEditable[field]
	return !ok
}

// DisplayName resolves the human column name for a field.
func (s *Set) DisplayName(field string) string {
	return s.displayName(field)
}

// Rule returns the rule for a field, if one is configured.
func (s *Set) Rule(field string) (Rule, bool) {
	r, ok := s.rules[field]
	return r, ok
}

// Replace swaps the rule for a field. Used when externally loaded code
// lists become available after startup.
func (s *Set) Replace(field string, r Rule) {
	s.rules[field] = r
}

// ValidateField checks a single value against the field's rule. It returns
// nil when the field has no rule or the value passes; otherwise the error
// message references the 1-based row number and the human column name.
func (s *Set) ValidateField(field, raw string, row int) error {
	return s.ValidateFieldAt(field, raw, strconv.Itoa(row))
}

// ValidateFieldAt is ValidateField with a free-form row label, for callers
// that reference rows hidden from the current view ("?").
func (s *Set) ValidateFieldAt(field, raw, row string) error {
	rule, ok := s.rules[field]
	if !ok {
		return nil
	}

	display := s.displayName(field)
	value := strings.TrimSpace(raw)

	if value == "" {
		if rule.AllowBlank {
			return nil
		}
		return fmt.Errorf("แถว %s, คอลัมน์ '%s': ไม่สามารถเป็นค่าว่างได้", row, display)
	}

	switch rule.Kind {
	case KindText:
		if rule.MaxLength > 0 && len([]rune(value)) > rule.MaxLength {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': ความยาวเกิน %d ตัวอักษร (ปัจจุบัน: %d)", row, display, rule.MaxLength, len([]rune(value)))
		}
		return nil

	case KindOptions, KindRange, KindCustom:
		if _, ok := rule.Allowed[value]; !ok {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': %s", row, display, rule.describe())
		}
		return nil

	case KindIntRange:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': ต้องเป็นตัวเลข", row, display)
		}
		if n < rule.Min || n > rule.Max {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': %s", row, display, rule.describe())
		}
		return nil

	case KindPaddedNumber:
		if err := checkDigits(value, rule.Length, row, display); err != nil {
			return err
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': ต้องเป็นตัวเลข", row, display)
		}
		if n < rule.Min || n > rule.Max {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': %s", row, display, rule.describe())
		}
		return nil

	case KindListPaddedNumber:
		if err := checkDigits(value, rule.Length, row, display); err != nil {
			return err
		}
		if _, ok := rule.Allowed[value]; !ok {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': %s", row, display, rule.describe())
		}
		return nil
	}

	return nil
}

func (r Rule) describe() string {
	if r.Description != "" {
		return r.Description
	}
	return "ค่าไม่ถูกต้อง"
}

func checkDigits(value string, length int, row, display string) error {
	if len(value) != length {
		return fmt.Errorf("แถว %s, คอลัมน์ '%s': ต้องมีความยาว %d หลัก", row, display, length)
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return fmt.Errorf("แถว %s, คอลัมน์ '%s': ต้องเป็นตัวเลขเท่านั้น", row, display)
		}
	}
	return nil
}

// AllowedSet builds a membership set from explicit values.
func AllowedSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// AllowedFromSlice builds a membership set from a code list.
func AllowedFromSlice(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// PaddedRange generates the zero-padded codes lo..hi at the given width,
// e.g. PaddedRange(1, 19, 2) covers "01".."19".
func PaddedRange(lo, hi, width int) map[string]struct{} {
	set := make(map[string]struct{}, hi-lo+1)
	for i := lo; i <= hi; i++ {
		set[fmt.Sprintf("%0*d", width, i)] = struct{}{}
	}
	return set
}

// mergeSets unions any number of membership sets.
func mergeSets(sets ...map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}
