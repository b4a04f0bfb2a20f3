// Package contact contains the pure business logic for contact operations.
// Guards are pure functions that evaluate preconditions without side effects.
package contact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Phone numbers must carry between MinPhoneDigits and MaxPhoneDigits digits.
const (
	MinPhoneDigits = 7
	MaxPhoneDigits = 15
)

var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`,
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SaveContactContext provides context for contact save guards.
type SaveContactContext struct {
	GivenName string
	Phone     string
	Email     string
}

// CanSaveContact evaluates whether a contact form may be saved.
// Rules:
// - Given name must not be blank
// - Phone must be 7-15 digits, nothing else
// - Email must be a plain address (local@domain.tld)
func CanSaveContact(ctx SaveContactContext) GuardResult {
	if strings.TrimSpace(ctx.GivenName) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "name is required",
		}
	}

	if !ValidPhone(ctx.Phone) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("phone %q must be %d-%d digits", ctx.Phone, MinPhoneDigits, MaxPhoneDigits),
		}
	}

	if !ValidEmail(ctx.Email) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("email %q is not a valid address", ctx.Email),
		}
	}

	return GuardResult{Allowed: true}
}

// ValidPhone reports whether phone consists only of digits and has an allowed length.
func ValidPhone(phone string) bool {
	n := utf8.RuneCountInString(phone)
	if n < MinPhoneDigits || n > MaxPhoneDigits {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidEmail reports whether email is a syntactically valid address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
