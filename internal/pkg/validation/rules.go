package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// EmailPattern matches the addresses accepted at registration
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// CPFPattern matches a bare 11-digit CPF (no punctuation)
	CPFPattern = `^\d{11}$`

	// PasswordPattern requires at least 8 characters including one special character
	PasswordPattern = `^[A-Za-z\d!@#$%^&*]{8,}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	CPF      *regexp.Regexp
	Password *regexp.Regexp
	Special  *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	CPF:      regexp.MustCompile(CPFPattern),
	Password: regexp.MustCompile(PasswordPattern),
	Special:  regexp.MustCompile(`[!@#$%^&*]`),
}

// IsValidCPF reports whether the value is a syntactically valid CPF.
func IsValidCPF(cpf string) bool {
	return CompiledPatterns.CPF.MatchString(cpf)
}

// IsValidPassword reports whether the password satisfies the registration
// policy: minimum length and at least one special character.
func IsValidPassword(password string) bool {
	return CompiledPatterns.Password.MatchString(password) &&
		CompiledPatterns.Special.MatchString(password)
}

// IsValidEmail reports whether the address matches the accepted format.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}
