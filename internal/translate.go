package internal

import "strings"

const (
	MsgUnknownError       = "Erro desconhecido"
	MsgGenericError       = "Ocorreu um erro. Tente novamente."
	MsgInvalidCredentials = "Email ou senha incorretos"
	MsgEmailNotConfirmed  = "Por favor, confirme seu email antes de fazer login"
	MsgDuplicateEmail     = "Este email já está cadastrado"
	MsgPasswordTooShort   = "A senha deve ter pelo menos 6 caracteres"
	MsgDuplicateCPF       = "Este CPF já está cadastrado"
)

// translations is checked in order; the first substring match wins.
var translations = []struct {
	needle  string
	message string
}{
	{"Invalid login credentials", MsgInvalidCredentials},
	{"invalid credentials", MsgInvalidCredentials},
	{"Email not confirmed", MsgEmailNotConfirmed},
	{"User already registered", MsgDuplicateEmail},
	{"Password should be at least", MsgPasswordTooShort},
	{"duplicate key value", MsgDuplicateCPF},
	{"UNIQUE constraint failed", MsgDuplicateCPF},
}

// TranslateError maps backend errors to the Portuguese message shown to users.
// Unknown messages pass through unchanged.
func TranslateError(err error) string {
	if err == nil {
		return MsgUnknownError
	}

	if appErr, ok := IsAppError(err); ok && appErr.Cause == nil {
		return appErr.GetDetailedMessage()
	}

	msg := err.Error()
	if msg == "" {
		return MsgGenericError
	}

	for _, t := range translations {
		if strings.Contains(msg, t.needle) {
			return t.message
		}
	}
	return msg
}

// IsUniqueViolation reports whether err came from a unique constraint on
// either postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
