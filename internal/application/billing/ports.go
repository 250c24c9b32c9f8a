package billing

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// Recipient destinatario impreso en el documento (cliente o lead).
type Recipient struct {
	Name        string
	CompanyName string
	TaxID       string
	Email       string
	Phone       string
	Address     string
}

// QuoteDocument datos necesarios para renderizar una cotización.
type QuoteDocument struct {
	Quote       entity.Quote
	Org         entity.Organization
	Recipient   Recipient
	Salesperson string
}

// InvoiceDocument datos necesarios para renderizar o exportar una factura.
type InvoiceDocument struct {
	Invoice   entity.Invoice
	Quote     *entity.Quote // cotización de origen; nil en instancias sin cotización cargada
	Org       entity.Organization
	Recipient Recipient
}

// DocumentRenderer puerto de salida para la representación gráfica (PDF).
type DocumentRenderer interface {
	QuotePDF(ctx context.Context, doc QuoteDocument) ([]byte, error)
	InvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceExporter puerto de salida para la exportación estructurada (XML) de facturas.
// Digest es el resumen SHA-256 (base64) de la forma canónica del documento.
type InvoiceExporter interface {
	InvoiceXML(ctx context.Context, doc InvoiceDocument) (xml []byte, digest string, err error)
}
