package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Special", "SecurePass123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "leo_tolstoy", false},
		{"Too Short", "lt", true},
		{"Illegal Chars", "leo@tolstoy", true},
		{"Starts Dash", "-leo", true},
		{"Ends Underscore", "leo_", true},
		{"Reserved", "edit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateEmail("leo@yasnaya.ru"))
	assert.Error(t, ValidateEmail("leo@"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestFieldErrors(t *testing.T) {
	t.Parallel()

	errs := FieldErrors{}
	assert.False(t, errs.Any())

	errs.Required("text", "   ")
	errs.MaxLength("location", strings.Repeat("й", 5), 3)
	errs.AddErr("email", nil)
	assert.True(t, errs.Any())
	assert.Equal(t, []string{MsgRequired}, errs["text"])
	assert.Len(t, errs["location"], 1)
	assert.NotContains(t, errs, "email")

	other := FieldErrors{"bio": {"too long"}, "text": {"again"}}
	errs.Merge(other)
	assert.Equal(t, []string{MsgRequired, "again"}, errs["text"])
	assert.Contains(t, errs.Error(), "bio: too long")
}

func TestCleanText_VisibleText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", CleanText("  <b>hello</b> "))
	assert.Equal(t, "", CleanText("<script>alert(1)</script>"))
	assert.Equal(t, "", CleanText("<b></b>"))
	assert.Equal(t, "fish & chips", CleanText("fish & chips"))
	assert.NotEmpty(t, CleanText("a<b and c>d"))
}
