package recognition

import (
	"fmt"
	"time"
)

// Month mes calendario.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf mes calendario de t (en la zona horaria de t).
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths desplaza n meses (n puede ser negativo).
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Contains informa si t cae en este mes.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// String formato AAAA-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ParseMonth interpreta AAAA-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("mes inválido %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// MonthsElapsed meses calendario de start a target (negativo si target es anterior).
func MonthsElapsed(target, start Month) int {
	return (target.Year-start.Year)*12 + int(target.Month) - int(start.Month)
}
