// Package validation holds the field validators shared by the worker form
// and the admin endpoints. Messages are in Spanish because they are shown
// verbatim to workers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	internal "github.com/rbenavente/cargas-api/internal"
)

const maxHumanAge = 120

var (
	namePattern    = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s'\-]+$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	accountPattern = regexp.MustCompile(`^[0-9]+$`)
)

// validDomainSuffixes mirrors the accepted TLD list of the HR tooling.
var validDomainSuffixes = []string{".com", ".cl", ".net", ".org", ".edu", ".gov", ".io", ".co"}

func Name(name string) *internal.AppError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return internal.NewValidationError("el nombre no puede estar vacío", internal.ErrCodeInvalidName)
	}
	if len([]rune(trimmed)) < 2 {
		return internal.NewValidationError("el nombre debe tener al menos 2 caracteres", internal.ErrCodeInvalidName)
	}
	if !namePattern.MatchString(trimmed) {
		return internal.NewValidationError("el nombre contiene caracteres no válidos", internal.ErrCodeInvalidName)
	}
	return nil
}

func Email(email string) *internal.AppError {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return internal.NewValidationError("el correo electrónico no puede estar vacío", internal.ErrCodeInvalidEmail)
	}
	if !emailPattern.MatchString(trimmed) {
		return internal.NewValidationError("formato de correo electrónico inválido", internal.ErrCodeInvalidEmail)
	}
	for _, suffix := range validDomainSuffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return nil
		}
	}
	return internal.NewValidationError("el dominio del correo no parece válido", internal.ErrCodeInvalidEmail)
}

// Age returns full years elapsed between birthDate and today, counting the
// anniversary day itself as completed.
func Age(birthDate time.Time) int {
	return AgeAt(birthDate, time.Now())
}

func AgeAt(birthDate, ref time.Time) int {
	age := ref.Year() - birthDate.Year()
	if ref.Month() < birthDate.Month() ||
		(ref.Month() == birthDate.Month() && ref.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// BirthDate rejects future dates and implausible ages. maxAge <= 0 means
// no ceiling beyond the sanity limit.
func BirthDate(birthDate time.Time, maxAge int) *internal.AppError {
	if birthDate.After(time.Now()) {
		return internal.NewValidationError("la fecha de nacimiento no puede ser futura", internal.ErrCodeInvalidBirthDate)
	}

	age := Age(birthDate)
	if age > maxHumanAge {
		return internal.NewValidationError("la edad calculada no es válida (mayor a 120 años)", internal.ErrCodeInvalidBirthDate)
	}
	if maxAge > 0 && age > maxAge {
		return internal.NewValidationError(
			fmt.Sprintf("la edad (%d años) supera el máximo permitido (%d años)", age, maxAge),
			internal.ErrCodeAgeExceeded)
	}
	return nil
}

// AccountNumber accepts 5 to 20 digits after stripping spaces and hyphens.
func AccountNumber(number string) *internal.AppError {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
	if cleaned == "" {
		return internal.NewValidationError("el número de cuenta no puede estar vacío", internal.ErrCodeInvalidAccount)
	}
	if !accountPattern.MatchString(cleaned) {
		return internal.NewValidationError("el número de cuenta debe contener solo números", internal.ErrCodeInvalidAccount)
	}
	if len(cleaned) < 5 || len(cleaned) > 20 {
		return internal.NewValidationError("el número de cuenta debe tener entre 5 y 20 dígitos", internal.ErrCodeInvalidAccount)
	}
	return nil
}

// TitleCase normalizes a person name the way the registration form stores
// it: first letter of each word uppercased, the rest lowered.
func TitleCase(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
