package quoting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
)

// LabelLanguage idioma de las etiquetas de montos.
const LabelLanguage = "es"

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	if q == nil {
		return nil
	}
	t := pricing.Totals{
		Subtotal:              q.Subtotal,
		TotalCOGS:             q.TotalCOGS,
		DiscountAmount:        pricing.DiscountAmount(q.Subtotal, q.Discount),
		TotalAmount:           q.TotalAmount,
		AppliedCommissionRate: q.AppliedCommissionRate,
		CommissionAmount:      q.CommissionAmount,
		NetProfit:             q.NetProfit,
		DueAtSigning:          q.DueAtSigning,
		RecurringAmount:       q.RecurringAmount,
	}
	return &dto.QuoteResponse{
		ID:                 q.ID,
		RootID:             q.RootID(),
		Version:            q.Version,
		ParentQuoteID:      q.ParentQuoteID,
		ClientID:           q.ClientID,
		LeadID:             q.LeadID,
		SalespersonID:      q.SalespersonID,
		Date:               q.Date,
		Status:             q.Status,
		Items:              toLineResponses(q.Items),
		Discount:           dto.AdjustmentDTO{Value: q.Discount.Value, Kind: string(q.Discount.Kind)},
		Currency:           q.Currency,
		ExchangeRate:       q.ExchangeRate,
		Notes:              q.Notes,
		Totals:             toTotalsResponse(t, q.Currency),
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

func toLineResponses(items []entity.QuoteLineItem) []dto.QuoteLineResponse {
	out := make([]dto.QuoteLineResponse, 0, len(items))
	for _, it := range items {
		f := pricing.CalculateLine(it)
		out = append(out, dto.QuoteLineResponse{
			ServiceID:        it.ServiceID,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        dto.Money(it.UnitPrice),
			UnitCost:         dto.Money(it.UnitCost),
			BillingFrequency: string(it.BillingFrequency),
			ContractMonths:   it.ContractMonths,
			DownPayment:      dto.AdjustmentDTO{Value: it.DownPayment.Value, Kind: string(it.DownPayment.Kind)},
			GrossValue:       dto.Money(f.GrossValue),
			COGS:             dto.Money(f.COGS),
			DueAtSigning:     dto.Money(f.DueAtSigning),
			Recurring:        dto.Money(f.Recurring),
			ROI:              dto.Money(pricing.LineROI(it)),
		})
	}
	return out
}

func toTotalsResponse(t pricing.Totals, code string) dto.QuoteTotalsResponse {
	return dto.QuoteTotalsResponse{
		Subtotal:              dto.Money(t.Subtotal),
		DiscountAmount:        dto.Money(decimal.Min(t.DiscountAmount, t.Subtotal)), // nunca mayor que el subtotal
		TotalCOGS:             dto.Money(t.TotalCOGS),
		TotalAmount:           dto.Money(t.TotalAmount),
		AppliedCommissionRate: t.AppliedCommissionRate,
		CommissionAmount:      dto.Money(t.CommissionAmount),
		NetProfit:             dto.Money(t.NetProfit),
		MarginPercent:         dto.Money(pricing.MarginPercent(t.NetProfit, t.TotalAmount)),
		DueAtSigning:          dto.Money(t.DueAtSigning),
		RecurringAmount:       dto.Money(t.RecurringAmount),
		TotalLabel:            currency.FormatAmount(t.TotalAmount, code, LabelLanguage),
	}
}
