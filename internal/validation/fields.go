package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MsgRequired is the message attached to empty mandatory fields.
const MsgRequired = "This field is required."

// FieldErrors collects form errors keyed by field name.
type FieldErrors map[string][]string

// Add appends msg to field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// AddErr appends err's message to field when err is non-nil.
func (f FieldErrors) AddErr(field string, err error) {
	if err != nil {
		f.Add(field, err.Error())
	}
}

// Merge copies every message of other into f.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

// Any reports whether at least one error was recorded.
func (f FieldErrors) Any() bool {
	return len(f) > 0
}

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(f[k], " ")))
	}
	return strings.Join(parts, "; ")
}

// Required records MsgRequired for a blank value.
func (f FieldErrors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.Add(field, MsgRequired)
	}
}

// MaxLength records an error when value is longer than limit runes.
func (f FieldErrors) MaxLength(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		f.Add(field, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", limit, utf8.RuneCountInString(value)))
	}
}
