// Package recurring calcula los ciclos vencidos de facturas y gastos recurrentes.
//
// Un mismo algoritmo sirve a ambos documentos: las facturas se acotan por fecha de fin y
// los gastos por un contador de ciclos restantes. La función es pura; el caso de uso crea
// los documentos concretos y persiste la plantilla con el nuevo LastGenerated.
package recurring

import (
	"time"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// MaxCyclesPerRun tope de ciclos emitidos por llamada; garantiza terminación ante reloj
// desfasado o frecuencias mal cargadas. Lo pendiente se emite en la siguiente sincronización.
const MaxCyclesPerRun = 36

// Template estado de la plantilla recurrente.
type Template struct {
	Frequency entity.Frequency
	Last      time.Time  // último ciclo generado (o fecha de creación)
	Remaining *int       // ciclos restantes; nil = sin contador
	EndDate   *time.Time // nil = sin fecha de fin
}

// Plan resultado de una sincronización.
type Plan struct {
	Dates     []time.Time // fechas de los documentos a emitir, en orden
	Last      time.Time   // nuevo LastGenerated
	Remaining *int        // contador actualizado (nil si la plantilla no lleva contador)
	Exhausted bool        // el contador llegó a 0: la plantilla deja de ser recurrente
}

// Advance suma un período de freq a t. Frecuencias desconocidas no avanzan.
func Advance(t time.Time, freq entity.Frequency) time.Time {
	switch freq {
	case entity.FrequencyHourly:
		return t.Add(time.Hour)
	case entity.FrequencyTwelveHours:
		return t.Add(12 * time.Hour)
	case entity.FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case entity.FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	case entity.FrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	case entity.FrequencySemiannual:
		return t.AddDate(0, 6, 0)
	case entity.FrequencyAnnual:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

// Schedule ciclos cuya fecha venció desde la última sincronización, hasta now inclusive.
// Nunca reemite un ciclo: cada fecha emitida es posterior a tpl.Last.
func Schedule(tpl Template, now time.Time) Plan {
	plan := Plan{Last: tpl.Last}
	if tpl.Remaining != nil {
		n := *tpl.Remaining
		plan.Remaining = &n
		if n <= 0 {
			*plan.Remaining = 0
			plan.Exhausted = true
			return plan
		}
	}

	last := tpl.Last
	for i := 0; i < MaxCyclesPerRun; i++ {
		next := Advance(last, tpl.Frequency)
		if !next.After(last) || next.After(now) {
			break
		}
		if tpl.EndDate != nil && next.After(*tpl.EndDate) {
			break
		}
		plan.Dates = append(plan.Dates, next)
		last = next
		if plan.Remaining != nil {
			*plan.Remaining--
			if *plan.Remaining == 0 {
				plan.Exhausted = true
				break
			}
		}
	}
	plan.Last = last
	return plan
}
