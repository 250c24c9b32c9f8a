package billing

import (
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

const labelLanguage = "es"

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}
	out := &dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		QuoteID:      inv.QuoteID,
		ClientID:     inv.ClientID,
		TemplateID:   inv.TemplateID,
		Date:         inv.Date,
		DueDate:      inv.DueDate,
		TotalAmount:  dto.Money(inv.TotalAmount),
		AmountPaid:   dto.Money(inv.AmountPaid()),
		Balance:      dto.Money(inv.Balance()),
		Status:       inv.Status(),
		Currency:     inv.Currency,
		ExchangeRate: inv.ExchangeRate,
		TotalLabel:   currency.FormatAmount(inv.TotalAmount, inv.Currency, labelLanguage),
		Payments:     make([]dto.PaymentResponse, 0, len(inv.PaymentHistory)),
		Recurring:    inv.Recurring,
		Notes:        inv.Notes,
		CreatedAt:    inv.CreatedAt,
	}
	for _, p := range inv.PaymentHistory {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Amount:    dto.Money(p.Amount),
			Date:      p.Date,
			Method:    p.Method,
			Reference: p.Reference,
		})
	}
	if s := inv.Schedule; s != nil {
		out.Schedule = &dto.InvoiceScheduleResponse{
			Frequency:     string(s.Frequency),
			EndDate:       s.EndDate,
			LastGenerated: s.LastGenerated,
			CycleAmount:   dto.Money(s.CycleAmount),
		}
	}
	return out
}

func toExpenseResponse(e *entity.OperationalExpense) *dto.ExpenseResponse {
	if e == nil {
		return nil
	}
	out := &dto.ExpenseResponse{
		ID:           e.ID,
		Category:     e.Category,
		Description:  e.Description,
		TemplateID:   e.TemplateID,
		Amount:       dto.Money(e.Amount),
		Currency:     e.Currency,
		ExchangeRate: e.ExchangeRate,
		Date:         e.Date,
		Recurring:    e.Recurring,
		CreatedAt:    e.CreatedAt,
	}
	if s := e.Schedule; s != nil {
		out.Frequency = string(s.Frequency)
		out.RemainingCycles = s.RemainingCycles
		last := s.LastGenerated
		out.LastGenerated = &last
	}
	return out
}
