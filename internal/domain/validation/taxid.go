package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del dígito de verificación (módulo 11), alineados a la derecha sobre hasta 15 dígitos.
var taxIDWeights = [15]int{71, 67, 59, 53, 47, 43, 41, 37, 29, 23, 19, 17, 13, 7, 3}

// VerificationDigit calcula el dígito de verificación de un número de identificación tributaria.
func VerificationDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) == 0 || len(digits) > len(taxIDWeights) {
		return 0, fmt.Errorf("se requieren entre 1 y %d dígitos, se encontraron %d", len(taxIDWeights), len(digits))
	}
	offset := len(taxIDWeights) - len(digits)
	var sum int
	for i, d := range digits {
		sum += int(d-'0') * taxIDWeights[offset+i]
	}
	r := sum % 11
	if r == 0 || r == 1 {
		return byte('0' + r), nil
	}
	return byte('0' + (11 - r)), nil
}

// TaxID valida la identificación tributaria cuando value no está vacío.
// Acepta "900373115-3", "900.373.115-3" o solo dígitos. Si trae guion, el dígito final debe
// coincidir con el calculado.
func (f FieldErrors) TaxID(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	for _, r := range value {
		if !unicode.IsDigit(r) && r != '.' && r != '-' {
			f.Add(field, "identificación con caracteres no permitidos")
			return
		}
	}
	base, dv, hasDV := strings.Cut(value, "-")
	digits := onlyDigits(base)
	if len(digits) < 5 || len(digits) > len(taxIDWeights) {
		f.Add(field, "identificación debe tener entre 5 y 15 dígitos")
		return
	}
	if !hasDV {
		return
	}
	if len(dv) != 1 || !unicode.IsDigit(rune(dv[0])) {
		f.Add(field, "dígito de verificación inválido")
		return
	}
	want, err := VerificationDigit(base)
	if err != nil || want != dv[0] {
		f.Add(field, "dígito de verificación no coincide")
	}
}

func onlyDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
