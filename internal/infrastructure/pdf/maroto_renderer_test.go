package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/pdf"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var org = entity.Organization{
	Name: "Cotiza SAS", BaseCurrency: "USD",
	Branding: entity.Branding{
		TaxID: "900373115-3", Address: "Calle 1 # 2-3", Email: "info@cotiza.co",
		Terms: "Validez de la oferta: 30 días.", BankDetails: "Banco X, cuenta 123",
	},
}

func sampleQuote() entity.Quote {
	q := entity.Quote{
		ID: "0f1e2d3c-aaaa-bbbb-cccc-1234567890ab", Version: 2, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: entity.QuoteStatusApproved, Currency: "USD", ExchangeRate: d("1"), Notes: "Incluye instalación.",
		Items: []entity.QuoteLineItem{
			{Description: "Implementación", Quantity: d("1"), UnitPrice: d("1200"), BillingFrequency: entity.FrequencyOneTime},
			{Description: "Soporte", Quantity: d("1"), UnitPrice: d("300"), BillingFrequency: entity.FrequencyMonthly, ContractMonths: 12},
		},
		Discount: entity.Adjustment{Value: d("10"), Kind: entity.AmountPercentage},
	}
	return pricing.ApplyTotals(q, d("5"))
}

func TestQuotePDF(t *testing.T) {
	r := pdf.NewMarotoRenderer()
	out, err := r.QuotePDF(context.Background(), billing.QuoteDocument{
		Quote: sampleQuote(), Org: org, Salesperson: "Ana",
		Recipient: billing.Recipient{Name: "Juan", CompanyName: "Acme"},
	})
	require.NoError(t, err)
	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestInvoicePDF(t *testing.T) {
	q := sampleQuote()
	inv := entity.Invoice{
		ID: "inv1", Number: "FAC-000007", QuoteID: q.ID,
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), DueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: q.DueAtSigning, Currency: "USD", ExchangeRate: d("1"),
		PaymentHistory: []entity.PaymentRecord{{ID: "p1", Amount: d("100")}},
	}
	r := pdf.NewMarotoRenderer()

	out, err := r.InvoicePDF(context.Background(), billing.InvoiceDocument{Invoice: inv, Quote: &q, Org: org, Recipient: billing.Recipient{Name: "Juan"}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	inv.TemplateID = "inv0"
	out, err = r.InvoicePDF(context.Background(), billing.InvoiceDocument{Invoice: inv, Org: entity.Organization{}, Recipient: billing.Recipient{Name: "Cliente"}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
