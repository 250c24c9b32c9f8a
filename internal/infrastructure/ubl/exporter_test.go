package ubl_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/ubl"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleDoc() billing.InvoiceDocument {
	q := pricing.ApplyTotals(entity.Quote{
		ID: "q1", Version: 1, Status: entity.QuoteStatusApproved, Currency: "EUR", ExchangeRate: d("0.9"),
		Items: []entity.QuoteLineItem{
			{Description: "Implementación", Quantity: d("1"), UnitPrice: d("1000"), BillingFrequency: entity.FrequencyOneTime},
			{Description: "Soporte", Quantity: d("1"), UnitPrice: d("100"), BillingFrequency: entity.FrequencyMonthly, ContractMonths: 12},
		},
		Discount: entity.Adjustment{Value: d("10"), Kind: entity.AmountPercentage},
	}, decimal.Zero)
	end := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	return billing.InvoiceDocument{
		Invoice: entity.Invoice{
			ID: "inv1", Number: "FAC-000001", QuoteID: "q1",
			Date:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			DueDate: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
			TotalAmount: q.DueAtSigning, Currency: "EUR", ExchangeRate: d("0.9"),
			PaymentHistory: []entity.PaymentRecord{{ID: "p1", Amount: d("100"), Date: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)}},
			Recurring:      true,
			Schedule:       &entity.InvoiceSchedule{Frequency: entity.FrequencyMonthly, EndDate: &end, CycleAmount: q.RecurringAmount},
		},
		Quote:     &q,
		Org:       entity.Organization{Name: "Cotiza SAS", Branding: entity.Branding{TaxID: "900373115-3", Email: "info@cotiza.co"}},
		Recipient: billing.Recipient{Name: "Juan", CompanyName: "Acme", Email: "juan@acme.co"},
	}
}

func TestInvoiceXML_Contenido(t *testing.T) {
	raw, digest, err := ubl.NewExporter().InvoiceXML(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.NotEmpty(t, digest)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "FAC-000001", root.SelectElement("cbc:ID").Text())
	assert.Equal(t, "EUR", root.SelectElement("cbc:DocumentCurrencyCode").Text())
	assert.Len(t, root.SelectElements("cac:InvoiceLine"), 2)

	total := root.SelectElement("cac:LegalMonetaryTotal")
	require.NotNil(t, total)
	// al firmar: (1000 + 100) * 0.9 = 990; pagado 100
	assert.Equal(t, "990.00", total.SelectElement("cbc:LineExtensionAmount").Text())
	assert.Equal(t, "100.00", total.SelectElement("cbc:PrepaidAmount").Text())
	assert.Equal(t, "890.00", total.SelectElement("cbc:PayableAmount").Text())
	assert.Equal(t, "EUR", total.SelectElement("cbc:PayableAmount").SelectAttrValue("currencyID", ""))

	customer := root.SelectElement("cac:AccountingCustomerParty")
	require.NotNil(t, customer)
	assert.Equal(t, "Acme", customer.FindElement("./cac:Party/cac:PartyName/cbc:Name").Text())
}

func TestInvoiceXML_DigestDeterminista(t *testing.T) {
	exp := ubl.NewExporter()
	_, a, err := exp.InvoiceXML(context.Background(), sampleDoc())
	require.NoError(t, err)
	_, b, err := exp.InvoiceXML(context.Background(), sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := sampleDoc()
	changed.Invoice.PaymentHistory = nil
	_, c, err := exp.InvoiceXML(context.Background(), changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDigest_FormaCanonica(t *testing.T) {
	a, err := ubl.Digest([]byte(`<?xml version="1.0"?><a x="2"><b/></a>`))
	require.NoError(t, err)
	b, err := ubl.Digest([]byte(`<a x="2"><b></b></a>`))
	require.NoError(t, err)
	assert.Equal(t, a, b, "la declaración y la forma del elemento vacío no cambian el resumen")
	assert.Len(t, a, 44)

	_, err = ubl.Digest([]byte("no es xml <"))
	assert.Error(t, err)
}
