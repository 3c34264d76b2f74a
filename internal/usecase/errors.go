package usecase

import "errors"

var (
	ErrValidation             = errors.New("validation error")
	ErrIdentityCreationFailed = errors.New("identity creation failed")
	ErrProfileCreationFailed  = errors.New("profile creation failed")
	ErrDateFormat             = errors.New("invalid birth date format")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthentication         = errors.New("authentication failed")
	ErrHashingFailure         = errors.New("password hashing failed")
	ErrVerificationFailure    = errors.New("password verification failed")
	ErrProfileNotFound        = errors.New("profile not found")
)

// Error is what the service returns for every classified failure. Kind is one
// of the sentinels above, Message is safe to show to the caller and Err keeps
// the underlying cause for logs.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Message
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

const (
	msgInvalidCredentials = "Email ou senha inválidos"
	msgRequiredFields     = "Todos os campos são obrigatórios"
	msgLoginRequired      = "Email e senha são obrigatórios"
	msgPasswordTooShort   = "A senha deve ter no mínimo 8 caracteres"
	msgPasswordTooLong    = "A senha deve ter no máximo 72 bytes"
	msgInvalidCPF         = "CPF inválido. Use o formato 000.000.000-00"
	msgInvalidBirthDate   = "Data de nascimento inválida. Use o formato DD/MM/AAAA"
	msgIdentityFailed     = "Não foi possível criar a conta"
	msgProfileNotFound    = "Perfil não encontrado"
)
