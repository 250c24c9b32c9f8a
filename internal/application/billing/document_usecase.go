package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/application/org"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// DocumentUseCase genera la representación imprimible (PDF) de cotizaciones y facturas
// y la exportación XML de facturas, con la marca de la organización.
type DocumentUseCase struct {
	repos    repository.Set
	settings *org.Loader
	renderer DocumentRenderer
	exporter InvoiceExporter
}

// NewDocumentUseCase construye el caso de uso inyectando renderer y exporter.
func NewDocumentUseCase(repos repository.Set, settings *org.Loader, renderer DocumentRenderer, exporter InvoiceExporter) *DocumentUseCase {
	return &DocumentUseCase{repos: repos, settings: settings, renderer: renderer, exporter: exporter}
}

// QuotePDF recupera la cotización, su destinatario y vendedor, y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la cotización no existe.
func (uc *DocumentUseCase) QuotePDF(ctx context.Context, quoteID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar cotización ──────────────────────────────────────────────────
	q, err := uc.repos.Quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Ajustes de la organización ─────────────────────────────────────────
	o, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	// ── 3. Destinatario y vendedor ────────────────────────────────────────────
	rcpt, err := uc.recipient(ctx, q.ClientID, q.LeadID)
	if err != nil {
		return nil, "", err
	}
	seller := ""
	if q.SalespersonID != "" {
		sp, err := uc.repos.Salespeople.GetByID(ctx, q.SalespersonID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener vendedor: %w", err)
		}
		if sp != nil {
			seller = sp.Name
		}
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.renderer.QuotePDF(ctx, QuoteDocument{Quote: *q, Org: *o, Recipient: rcpt, Salesperson: seller})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("cotizacion_%s_v%d.pdf", shortID(q.RootID()), q.Version)
	return pdfBytes, filename, nil
}

// InvoicePDF genera el PDF de una factura.
func (uc *DocumentUseCase) InvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.invoiceDocument(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.renderer.InvoicePDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", doc.Invoice.Number), nil
}

// InvoiceXML exporta la factura como XML y devuelve el digest de su forma canónica.
func (uc *DocumentUseCase) InvoiceXML(ctx context.Context, invoiceID string) (xmlBytes []byte, filename, digest string, err error) {
	doc, err := uc.invoiceDocument(ctx, invoiceID)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err = uc.exporter.InvoiceXML(ctx, *doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("xml: exportación fallida: %w", err)
	}
	return xmlBytes, fmt.Sprintf("factura_%s.xml", doc.Invoice.Number), digest, nil
}

func (uc *DocumentUseCase) invoiceDocument(ctx context.Context, invoiceID string) (*InvoiceDocument, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	o, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	rcpt, err := uc.recipient(ctx, inv.ClientID, "")
	if err != nil {
		return nil, err
	}
	var q *entity.Quote
	if inv.QuoteID != "" {
		q, err = uc.repos.Quotes.GetByID(ctx, inv.QuoteID)
		if err != nil {
			return nil, fmt.Errorf("documento: obtener cotización: %w", err)
		}
	}
	return &InvoiceDocument{Invoice: *inv, Quote: q, Org: *o, Recipient: rcpt}, nil
}

// recipient datos del cliente; si no hay cliente, los del lead.
func (uc *DocumentUseCase) recipient(ctx context.Context, clientID, leadID string) (Recipient, error) {
	if clientID != "" {
		c, err := uc.repos.Clients.GetByID(ctx, clientID)
		if err != nil {
			return Recipient{}, fmt.Errorf("documento: obtener cliente: %w", err)
		}
		if c != nil {
			return Recipient{
				Name: c.Name, CompanyName: c.CompanyName, TaxID: c.TaxID,
				Email: c.Email, Phone: c.Phone, Address: c.Address,
			}, nil
		}
	}
	if leadID != "" {
		l, err := uc.repos.Leads.GetByID(ctx, leadID)
		if err != nil {
			return Recipient{}, fmt.Errorf("documento: obtener lead: %w", err)
		}
		if l != nil {
			return Recipient{Name: l.Name, CompanyName: l.CompanyName, Email: l.Email, Phone: l.Phone}, nil
		}
	}
	return Recipient{Name: "Cliente"}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
