// Package validation valida formularios de captura (clientes, leads, vendedores, gastos).
// Los errores son por campo: el handler los devuelve juntos y no se guarda nada.
package validation

import (
	"net/mail"
	"sort"
	"strings"
	"unicode"
)

// FieldErrors mensajes por nombre de campo (nombre JSON).
type FieldErrors map[string]string

// Add registra el primer error de un campo; los siguientes se ignoran.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// OK informa si no hay errores.
func (f FieldErrors) OK() bool { return len(f) == 0 }

// Error implementa error; lista los campos en orden alfabético.
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Err retorna nil si no hay errores, o el propio mapa como error.
func (f FieldErrors) Err() error {
	if f.OK() {
		return nil
	}
	return f
}

// Required agrega un error si value está vacío.
func (f FieldErrors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.Add(field, "es obligatorio")
	}
}

// Email valida formato de correo cuando value no está vacío.
func (f FieldErrors) Email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		f.Add(field, "correo inválido")
	}
}

// Phone valida un teléfono cuando value no está vacío: dígitos, espacios, guiones, paréntesis
// y un '+' inicial; entre 7 y 15 dígitos.
func (f FieldErrors) Phone(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	digits := 0
	for i, r := range value {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		case r == '+' && i == 0:
		default:
			f.Add(field, "teléfono con caracteres no permitidos")
			return
		}
	}
	if digits < 7 || digits > 15 {
		f.Add(field, "teléfono debe tener entre 7 y 15 dígitos")
	}
}

// MaxLen limita la longitud en caracteres.
func (f FieldErrors) MaxLen(field, value string, max int) {
	if len([]rune(value)) > max {
		f.Add(field, "excede la longitud máxima")
	}
}
