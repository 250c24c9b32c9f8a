package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")
	colorGreen  = lipgloss.Color("#8ec07c")

	StyleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	StyleDim    = lipgloss.NewStyle().Foreground(colorDim)
	StyleOK     = lipgloss.NewStyle().Foreground(colorGreen)
)

// RenderBox encierra content en un recuadro con título.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		PaddingLeft(2).
		PaddingRight(2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

// RenderTable tabla alineada; mide el ancho visible para ignorar los códigos ANSI.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", pad+2))
			}
		}
		b.WriteString("\n")
	}
	writeRow(headers, &StyleHeader)
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

// FormatCalculation líneas y totales de una vista previa.
func FormatCalculation(out *dto.QuoteCalculationResponse) string {
	rows := make([][]string, 0, len(out.Items))
	for _, it := range out.Items {
		rows = append(rows, []string{
			it.Description,
			it.BillingFrequency,
			strconv.Itoa(it.ContractMonths),
			num(it.GrossValue),
			num(it.COGS),
			num(it.DueAtSigning),
			num(it.Recurring),
		})
	}
	table := RenderTable([]string{"Descripción", "Frecuencia", "Meses", "Bruto", "COGS", "Al firmar", "Cuota"}, rows)

	t := out.Totals
	summary := strings.Join([]string{
		kv("Subtotal", num(t.Subtotal)),
		kv("Descuento", num(t.DiscountAmount)),
		kv("Total", t.TotalLabel),
		kv("COGS", num(t.TotalCOGS)),
		kv("Comisión", fmt.Sprintf("%s (%s%%)", num(t.CommissionAmount), t.AppliedCommissionRate.String())),
		kv("Utilidad neta", num(t.NetProfit)),
		kv("Margen", t.MarginPercent.StringFixed(1)+"%"),
		kv("Al firmar", num(t.DueAtSigning)),
		kv("Recurrente", num(t.RecurringAmount)),
	}, "\n")
	return table + "\n" + RenderBox("Totales", summary) + "\n"
}

// FormatSyncResult resumen de una sincronización de recurrentes.
func FormatSyncResult(res *dto.RecurringSyncResponse) string {
	lines := []string{
		kv("Facturas generadas", strconv.Itoa(len(res.InvoicesCreated))),
		kv("Gastos generados", strconv.Itoa(len(res.ExpensesCreated))),
		kv("Plantillas agotadas", strconv.Itoa(res.TemplatesExhausted)),
		kv("Ejecutado", res.RanAt.Format("2006-01-02 15:04")),
	}
	return RenderBox("Recurrentes", strings.Join(lines, "\n")) + "\n"
}

func kv(k, v string) string {
	return StyleDim.Render(fmt.Sprintf("%-20s", k)) + v
}

func num(d decimal.Decimal) string { return d.StringFixed(2) }
