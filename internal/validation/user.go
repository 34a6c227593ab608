// Package validation implements input normalization and the collect-all
// validation pipelines for user and post input.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Username length bounds.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
)

// Password length bounds. The plaintext constraint applies at registration
// only; at rest the password is a bcrypt hash.
const (
	PasswordMinLen = 12
	PasswordMaxLen = 50
)

// RegistrationInput is the normalized registration payload.
type RegistrationInput struct {
	Username string
	Email    string
	Password string
}

// NormalizeRegistration trims and lowercases the identity fields. The
// password is kept verbatim.
func NormalizeRegistration(username, email, password string) RegistrationInput {
	return RegistrationInput{
		Username: strings.ToLower(strings.TrimSpace(username)),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
}

// UsernameShapeErrors checks the username's own shape rules: non-empty,
// alphanumeric only, length within bounds. At most one violation is reported,
// mirroring the rule precedence of the registration form.
func UsernameShapeErrors(username string) []string {
	switch {
	case username == "":
		return []string{"You must provide a username."}
	case validate.Var(username, "alphanum") != nil:
		return []string{"Username can only contain letters and numbers."}
	case len(username) < UsernameMinLen:
		return []string{"Username must be at least 3 characters."}
	case len(username) > UsernameMaxLen:
		return []string{"Username cannot exceed 30 characters."}
	}
	return nil
}

// ValidEmail reports whether the input matches a valid email-address grammar.
func ValidEmail(email string) bool {
	return email != "" && validate.Var(email, "email") == nil
}

// PasswordErrors checks the plaintext password bounds.
func PasswordErrors(password string) []string {
	switch {
	case password == "":
		return []string{"You must provide a password."}
	case len(password) < PasswordMinLen:
		return []string{"Password must be at least 12 characters."}
	case len(password) > PasswordMaxLen:
		return []string{"Password cannot exceed 50 characters."}
	}
	return nil
}

// RegistrationShapeErrors runs every shape rule and aggregates all
// violations instead of short-circuiting at the first one. Uniqueness checks
// run separately in the service because they need the store.
func RegistrationShapeErrors(in RegistrationInput) []string {
	var errs []string
	errs = append(errs, UsernameShapeErrors(in.Username)...)
	if !ValidEmail(in.Email) {
		errs = append(errs, "You must provide a valid email address.")
	}
	errs = append(errs, PasswordErrors(in.Password)...)
	return errs
}
