// Package pdf implementa la representación gráfica de cotizaciones y facturas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización + NIT  │  Tipo de documento + N°/Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  DESTINATARIO: Nombre + empresa + contacto                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Frecuencia | P.Unit | Valor     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Total / Al firmar / Cuota   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Términos + datos bancarios + QR de verificación     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/application/billing"
	"github.com/jhoicas/Cotiza-api/internal/domain/currency"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/pricing"
)

// labelLang idioma de las etiquetas de montos.
const labelLang = "es"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var frequencyLabels = map[entity.Frequency]string{
	entity.FrequencyOneTime:   "Único",
	entity.FrequencyMonthly:   "Mensual",
	entity.FrequencyQuarterly: "Trimestral",
	entity.FrequencyAnnual:    "Anual",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa billing.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

var _ billing.DocumentRenderer = (*MarotoRenderer)(nil)

// QuotePDF genera el PDF de una versión de cotización.
func (r *MarotoRenderer) QuotePDF(_ context.Context, doc billing.QuoteDocument) ([]byte, error) {
	q := doc.Quote
	m := newDocument(doc.Org, "Cotización")

	number := fmt.Sprintf("COT-%s v%d", shortID(q.RootID()), q.Version)
	m.AddRows(headerRow(doc.Org, "COTIZACIÓN", number, q.Date.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Org.Branding))
	m.AddRows(recipientRow(doc.Recipient, doc.Salesperson))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(q.Items, q.Currency)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	discount := q.Subtotal.Sub(q.TotalAmount)
	totals := []totalLine{
		{"Subtotal:", q.Subtotal, false},
		{"Descuento:", discount, false},
		{"TOTAL CONTRATO:", q.TotalAmount, true},
		{"Pago al firmar:", q.DueAtSigning, false},
	}
	switch freqs := q.RecurringFrequencies(); len(freqs) {
	case 0:
	case 1:
		totals = append(totals, totalLine{"Cuota " + strings.ToLower(frequencyLabel(freqs[0])) + ":", q.RecurringAmount, false})
	default:
		totals = append(totals, totalLine{"Cuotas recurrentes:", q.RecurringAmount, false})
	}
	m.AddRows(totalsRow(totals, q.Currency))

	if q.Notes != "" {
		m.AddRows(notesRows("OBSERVACIONES", q.Notes)...)
	}
	m.AddRows(footerRows(doc.Org.Branding, "")...)

	return generate(m)
}

// InvoicePDF genera el PDF de una factura con su estado de pagos.
func (r *MarotoRenderer) InvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	m := newDocument(doc.Org, "Factura "+inv.Number)

	m.AddRows(headerRow(doc.Org, "FACTURA DE VENTA", inv.Number, inv.Date.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(doc.Org.Branding))
	m.AddRows(recipientRow(doc.Recipient, ""))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if doc.Quote != nil && inv.TemplateID == "" {
		m.AddRows(itemRows(doc.Quote.Items, inv.Currency)...)
	} else {
		desc := "Servicios del período"
		if inv.Notes != "" {
			desc = inv.Notes
		}
		m.AddRows(detailRow("1", desc, "", inv.TotalAmount, inv.TotalAmount, inv.Currency))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([]totalLine{
		{"TOTAL A PAGAR:", inv.TotalAmount, true},
		{"Pagado:", inv.AmountPaid(), false},
		{"Saldo:", inv.Balance(), false},
	}, inv.Currency))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Vence: "+inv.DueDate.Format("02/01/2006")+"   |   Estado: "+statusLabel(inv.Status()), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 1, Right: 1,
		}),
	)))

	verify := fmt.Sprintf("%s|%s|%s|%s", inv.Number, inv.Date.Format("2006-01-02"), inv.TotalAmount.StringFixed(2), inv.Currency)
	m.AddRows(footerRows(doc.Org.Branding, verify)...)

	return generate(m)
}

func newDocument(o entity.Organization, title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(o.Name, "Cotiza"), true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización + NIT (izq) y tipo de documento + número + fecha (der).
func headerRow(o entity.Organization, kind, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(o.Name, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(o.Branding.TaxID, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func issuerRow(b entity.Branding) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(b.Address, "-"),
				nonEmpty(b.Phone, "-"),
				nonEmpty(b.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func recipientRow(rc billing.Recipient, salesperson string) core.Row {
	name := rc.Name
	if rc.CompanyName != "" {
		name += " · " + rc.CompanyName
	}
	contact := fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
		nonEmpty(rc.TaxID, "-"),
		nonEmpty(rc.Email, "-"),
		nonEmpty(rc.Phone, "-"),
	)
	if salesperson != "" {
		contact += "   |   Asesor: " + salesperson
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Descripción del servicio", 5, align.Left),
		h("Frecuencia", 2, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

// itemRows una fila por línea; la columna Valor es el valor bruto del contrato.
func itemRows(items []entity.QuoteLineItem, code string) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		f := pricing.CalculateLine(it)
		freq := frequencyLabel(it.BillingFrequency)
		if it.BillingFrequency.IsRecurring() {
			freq = fmt.Sprintf("%s x%d", freq, pricing.ContractMonths(it))
		}
		out = append(out, detailRow(it.Quantity.String(), nonEmpty(it.Description, "Servicio"), freq, it.UnitPrice, f.GrossValue, code))
	}
	return out
}

func detailRow(qty, desc, freq string, unit, value decimal.Decimal, code string) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(freq, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(money(unit, code), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(money(value, code), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

type totalLine struct {
	label  string
	amount decimal.Decimal
	grand  bool
}

// totalsRow bloque de totales alineado a la derecha.
func totalsRow(lines []totalLine, code string) core.Row {
	labels := make([]core.Component, 0, len(lines))
	values := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		p := props.Text{Size: 9, Align: align.Right, Top: float64(i * 5)}
		if l.grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		lp.Right = 2
		p.Right = 1
		labels = append(labels, text.New(l.label, lp))
		values = append(values, text.New(money(l.amount, code), p))
	}
	return row.New(float64(len(lines)*5 + 4)).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func notesRows(title, body string) []core.Row {
	rows := []core.Row{
		row.New(3),
		row.New(6).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	for _, chunk := range splitEvery(body, 110) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 7.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// footerRows términos, datos bancarios y QR de verificación cuando verify no está vacío.
func footerRows(b entity.Branding, verify string) []core.Row {
	var rows []core.Row
	if b.Terms != "" {
		rows = append(rows, notesRows("TÉRMINOS Y CONDICIONES", b.Terms)...)
	}
	if b.BankDetails != "" {
		rows = append(rows, notesRows("DATOS BANCARIOS", b.BankDetails)...)
	}
	rows = append(rows, row.New(3), line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	if verify != "" {
		rows = append(rows, row.New(40).Add(
			col.New(3).Add(code.NewQr(verify, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Código de verificación del documento:", props.Text{
					Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3,
				}),
				text.New(verify, props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray}),
			),
		))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Documento generado electrónicamente. Los valores se expresan en la moneda indicada en cada monto.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2, Align: align.Center}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func money(d decimal.Decimal, code string) string {
	return currency.FormatAmount(d, code, labelLang)
}

func frequencyLabel(f entity.Frequency) string {
	if l, ok := frequencyLabels[f]; ok {
		return l
	}
	return string(f)
}

func statusLabel(s string) string {
	switch s {
	case entity.PaymentStatusPaid:
		return "Pagada"
	case entity.PaymentStatusPartial:
		return "Pago parcial"
	default:
		return "Pendiente"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
