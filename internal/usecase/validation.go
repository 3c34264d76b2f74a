package usecase

import (
	"regexp"
	"strings"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

var cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

// SignupInput is the /cadastro payload.
type SignupInput struct {
	Name       string `json:"name"`
	NationalID string `json:"nationalId"`
	BirthDate  string `json:"birthDate"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	State      string `json:"state"`
	City       string `json:"city"`
}

// ValidateSignup stops at the first failing rule.
func ValidateSignup(in SignupInput) error {
	for _, v := range []string{in.Name, in.NationalID, in.BirthDate, in.Email, in.Password, in.State, in.City} {
		if strings.TrimSpace(v) == "" {
			return newError(ErrValidation, msgRequiredFields, nil)
		}
	}
	if len(in.Password) < minPasswordLength {
		return newError(ErrValidation, msgPasswordTooShort, nil)
	}
	if len(in.Password) > maxPasswordBytes {
		return newError(ErrValidation, msgPasswordTooLong, nil)
	}
	if !ValidCPF(in.NationalID) {
		return newError(ErrValidation, msgInvalidCPF, nil)
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return newError(ErrValidation, msgLoginRequired, nil)
	}
	return nil
}

// ValidCPF checks the 000.000.000-00 shape only, not the check digits.
func ValidCPF(cpf string) bool {
	return cpfPattern.MatchString(cpf)
}

// ConvertBirthDate turns DD/MM/YYYY into YYYY-MM-DD. Calendar validity is not checked.
func ConvertBirthDate(display string) (string, error) {
	parts := strings.Split(strings.TrimSpace(display), "/")
	if len(parts) != 3 {
		return "", newError(ErrDateFormat, msgInvalidBirthDate, nil)
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0], nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
