// Package rut validates Chilean national identification numbers (RUT).
//
// The canonical form is uppercase ASCII with every separator stripped:
// seven or eight digits followed by a check character in 0-9 or K.
package rut

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var canonicalPattern = regexp.MustCompile(`^\d{7,8}[0-9K]$`)

var (
	ErrEmpty     = errors.New("el RUT no puede estar vacío")
	ErrMalformed = errors.New("formato de RUT inválido, debe ser 12345678-9 o 12.345.678-9")
)

// CheckDigitError reports a checksum mismatch along with the digit the
// body actually yields.
type CheckDigitError struct {
	Expected string
}

func (e *CheckDigitError) Error() string {
	return fmt.Sprintf("RUT inválido, el dígito verificador debería ser %s", e.Expected)
}

// Canonicalize strips dots, hyphens and whitespace and uppercases the rest.
// It never fails; garbage in, garbage out.
func Canonicalize(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	replacer := strings.NewReplacer(".", "", "-", "", " ", "", "\t", "")
	return replacer.Replace(cleaned)
}

// ComputeCheckDigit applies the official modulo-11 scheme to a digits-only
// body: weights 2,3,4,5,6,7 cycling from the least significant digit.
func ComputeCheckDigit(body string) string {
	weights := [6]int{2, 3, 4, 5, 6, 7}
	sum := 0
	for i := 0; i < len(body); i++ {
		digit := int(body[len(body)-1-i] - '0')
		sum += digit * weights[i%6]
	}

	switch dv := 11 - sum%11; dv {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return fmt.Sprintf("%d", dv)
	}
}

// Validate checks a RUT in any common format. It returns ErrEmpty,
// ErrMalformed or a *CheckDigitError; nil means the RUT is valid.
func Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmpty
	}

	canonical := Canonicalize(raw)
	if !canonicalPattern.MatchString(canonical) {
		return ErrMalformed
	}

	body := canonical[:len(canonical)-1]
	got := string(canonical[len(canonical)-1])
	if expected := ComputeCheckDigit(body); got != expected {
		return &CheckDigitError{Expected: expected}
	}
	return nil
}

// FormatDisplay renders a RUT as 12.345.678-9. Inputs shorter than two
// canonical characters are returned unchanged.
func FormatDisplay(raw string) string {
	canonical := Canonicalize(raw)
	if len(canonical) < 2 {
		return raw
	}

	body := canonical[:len(canonical)-1]
	dv := canonical[len(canonical)-1:]

	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "-" + dv
}
