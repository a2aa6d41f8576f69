package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shop/storefront/internal/domain/shared"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

func validateName(field, name string, max int) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", fmt.Sprintf("%s name cannot be empty", field))
	}
	if utf8.RuneCountInString(name) > max {
		return shared.NewDomainError("INVALID_NAME", fmt.Sprintf("%s name cannot exceed %d characters", field, max))
	}
	return nil
}

// ValidateEmail checks a contact e-mail address
func ValidateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePhone checks a contact phone number
func ValidatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
