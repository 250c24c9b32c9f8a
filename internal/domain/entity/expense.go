package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseSchedule descriptor de un gasto recurrente. RemainingCycles nil = sin límite.
type ExpenseSchedule struct {
	Frequency       Frequency
	RemainingCycles *int
	LastGenerated   time.Time
}

// OperationalExpense gasto operativo. Cuando RemainingCycles llega a 0, Recurring pasa a false (terminal).
type OperationalExpense struct {
	ID           string
	Category     string
	Description  string
	TemplateID   string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Date         time.Time
	Recurring    bool
	Schedule     *ExpenseSchedule
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone copia profunda.
func (e OperationalExpense) Clone() OperationalExpense {
	c := e
	if e.Schedule != nil {
		s := *e.Schedule
		if e.Schedule.RemainingCycles != nil {
			n := *e.Schedule.RemainingCycles
			s.RemainingCycles = &n
		}
		c.Schedule = &s
	}
	return c
}
