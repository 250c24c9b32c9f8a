package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

type fakeRenderer struct {
	quote   *billing.QuoteDocument
	invoice *billing.InvoiceDocument
}

func (f *fakeRenderer) QuotePDF(_ context.Context, doc billing.QuoteDocument) ([]byte, error) {
	f.quote = &doc
	return []byte("%PDF-quote"), nil
}

func (f *fakeRenderer) InvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	f.invoice = &doc
	return []byte("%PDF-invoice"), nil
}

type fakeExporter struct{}

func (fakeExporter) InvoiceXML(_ context.Context, doc billing.InvoiceDocument) ([]byte, string, error) {
	return []byte("<Invoice>" + doc.Invoice.Number + "</Invoice>"), "digest==", nil
}

func TestDocumentUseCase_QuotePDF(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.repos.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme", TaxID: "900373115-3"}))
	require.NoError(t, e.repos.Salespeople.Create(ctx, &entity.Salesperson{ID: "sp1", Name: "Ana", Email: "ana@x.co"}))
	q := e.seedQuote(t, "12345678-aaaa", "", 1, entity.QuoteStatusDraft, oneTime("10"))
	q.SalespersonID = "sp1"
	require.NoError(t, e.repos.Quotes.Update(ctx, &q))

	r := &fakeRenderer{}
	uc := billing.NewDocumentUseCase(e.repos, org.NewLoader(e.repos.Organizations, "USD"), r, fakeExporter{})

	pdf, name, err := uc.QuotePDF(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-quote", string(pdf))
	assert.Equal(t, "cotizacion_12345678_v1.pdf", name)
	require.NotNil(t, r.quote)
	assert.Equal(t, "Acme", r.quote.Recipient.Name)
	assert.Equal(t, "Ana", r.quote.Salesperson)
	assert.Equal(t, "USD", r.quote.Org.BaseCurrency, "ajustes por defecto")

	_, _, err = uc.QuotePDF(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentUseCase_InvoiceXMLYPDF(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.repos.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
	e.seedQuote(t, "q1", "", 1, entity.QuoteStatusApproved, oneTime("10"))
	inv, err := e.invoices().ConvertQuote(ctx, "q1", dto.ConvertQuoteRequest{})
	require.NoError(t, err)

	r := &fakeRenderer{}
	uc := billing.NewDocumentUseCase(e.repos, org.NewLoader(e.repos.Organizations, "USD"), r, fakeExporter{})

	body, name, digest, err := uc.InvoiceXML(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "<Invoice>FAC-000001</Invoice>", string(body))
	assert.Equal(t, "factura_FAC-000001.xml", name)
	assert.Equal(t, "digest==", digest)

	_, name, err = uc.InvoicePDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_FAC-000001.pdf", name)
	require.NotNil(t, r.invoice)
	require.NotNil(t, r.invoice.Quote, "incluye la cotización de origen")
	assert.Equal(t, "q1", r.invoice.Quote.ID)
}
