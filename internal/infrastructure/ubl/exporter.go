// Package ubl exporta facturas como documento XML estilo UBL 2.1 y calcula el resumen
// SHA-256 de su forma canónica (C14N), que viaja en la cabecera X-Document-Digest.
package ubl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	// CustomizationID identifica el perfil del documento exportado.
	CustomizationID = "cotiza-invoice-1.0"
	// InvoiceTypeCode código UNCL1001 de factura comercial.
	InvoiceTypeCode = "380"
)

// Exporter implementa billing.InvoiceExporter con etree + c14n.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter { return &Exporter{} }

var _ billing.InvoiceExporter = (*Exporter)(nil)

// InvoiceXML genera el XML indentado y el digest base64 de su forma canónica.
func (e *Exporter) InvoiceXML(_ context.Context, doc billing.InvoiceDocument) ([]byte, string, error) {
	root := buildInvoice(doc)

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	out.SetRoot(root)
	out.Indent(2)
	raw, err := out.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("ubl: serializar XML: %w", err)
	}

	digest, err := Digest(raw)
	if err != nil {
		return nil, "", err
	}
	return raw, digest, nil
}

// Digest SHA-256 (base64) de la forma canónica de data, sin la declaración XML.
func Digest(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("ubl: parsear XML: %w", err)
	}
	if doc.Root() == nil {
		return "", fmt.Errorf("ubl: documento sin elemento raíz")
	}
	bare := etree.NewDocument()
	bare.SetRoot(doc.Root().Copy())
	rootBytes, err := bare.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("ubl: serializar raíz: %w", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(rootBytes))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("ubl: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func buildInvoice(doc billing.InvoiceDocument) *etree.Element {
	inv := doc.Invoice
	code := inv.Currency

	root := etree.NewElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "CustomizationID", CustomizationID)
	cbc(root, "ID", inv.Number)
	cbc(root, "IssueDate", inv.Date.Format("2006-01-02"))
	if !inv.DueDate.IsZero() {
		cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	}
	cbc(root, "InvoiceTypeCode", InvoiceTypeCode)
	if inv.Notes != "" {
		cbc(root, "Note", inv.Notes)
	}
	cbc(root, "DocumentCurrencyCode", code)
	if inv.QuoteID != "" {
		cbc(cac(root, "OrderReference"), "ID", inv.QuoteID)
	}
	if inv.TemplateID != "" {
		cbc(cac(root, "BillingReference", "InvoiceDocumentReference"), "ID", inv.TemplateID)
	}

	b := doc.Org.Branding
	party(cac(root, "AccountingSupplierParty"), doc.Org.Name, b.TaxID, b.Email, b.Phone, b.Address)
	rc := doc.Recipient
	name := rc.Name
	if rc.CompanyName != "" {
		name = rc.CompanyName
	}
	party(cac(root, "AccountingCustomerParty"), name, rc.TaxID, rc.Email, rc.Phone, rc.Address)

	if inv.Recurring && inv.Schedule != nil {
		terms := cac(root, "PaymentTerms")
		note := "Facturación recurrente " + string(inv.Schedule.Frequency)
		if inv.Schedule.EndDate != nil {
			note += " hasta " + inv.Schedule.EndDate.Format("2006-01-02")
		}
		cbc(terms, "Note", note)
		amount(terms, "Amount", inv.Schedule.CycleAmount, code)
	}

	for _, p := range inv.PaymentHistory {
		pp := cac(root, "PrepaidPayment")
		cbc(pp, "ID", p.ID)
		amount(pp, "PaidAmount", p.Amount, code)
		cbc(pp, "PaidDate", p.Date.Format("2006-01-02"))
	}

	total := cac(root, "LegalMonetaryTotal")
	amount(total, "LineExtensionAmount", inv.TotalAmount, code)
	amount(total, "PrepaidAmount", inv.AmountPaid(), code)
	amount(total, "PayableAmount", inv.Balance(), code)

	lines(root, doc, code)
	return root
}

// lines con cotización de origen: una línea por ítem con su parte del cobro al firmar;
// en instancias recurrentes, una sola línea por el valor del ciclo.
func lines(root *etree.Element, doc billing.InvoiceDocument, code string) {
	inv := doc.Invoice
	if doc.Quote == nil || inv.TemplateID != "" {
		invoiceLine(root, 1, "Servicios del período", decimal.NewFromInt(1), inv.TotalAmount, inv.TotalAmount, code)
		return
	}
	q := doc.Quote
	ratio := pricing.DiscountRatio(q.Subtotal, q.TotalAmount)
	for i, it := range q.Items {
		f := pricing.CalculateLine(it)
		desc := it.Description
		if desc == "" {
			desc = "Servicio"
		}
		invoiceLine(root, i+1, desc, it.Quantity, it.UnitPrice, f.DueAtSigning.Mul(ratio), code)
	}
}

func invoiceLine(root *etree.Element, n int, desc string, qty, price, value decimal.Decimal, code string) {
	il := cac(root, "InvoiceLine")
	cbc(il, "ID", fmt.Sprintf("%d", n))
	q := cbc(il, "InvoicedQuantity", qty.String())
	q.CreateAttr("unitCode", "E48")
	amount(il, "LineExtensionAmount", value, code)
	cbc(cac(il, "Item"), "Description", desc)
	amount(cac(il, "Price"), "PriceAmount", price, code)
}

func party(parent *etree.Element, name, taxID, email, phone, address string) {
	p := cac(parent, "Party")
	cbc(cac(p, "PartyName"), "Name", name)
	if address != "" {
		cbc(cac(p, "PostalAddress", "AddressLine"), "Line", address)
	}
	if taxID != "" {
		cbc(cac(p, "PartyTaxScheme"), "CompanyID", taxID)
	}
	if email != "" || phone != "" {
		c := cac(p, "Contact")
		if phone != "" {
			cbc(c, "Telephone", phone)
		}
		if email != "" {
			cbc(c, "ElectronicMail", email)
		}
	}
}

// cac crea la cadena de elementos agregados anidados y retorna el último.
func cac(parent *etree.Element, path ...string) *etree.Element {
	el := parent
	for _, tag := range path {
		el = el.CreateElement("cac:" + tag)
	}
	return el
}

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, tag string, v decimal.Decimal, code string) {
	el := cbc(parent, tag, v.StringFixed(2))
	el.CreateAttr("currencyID", code)
}
