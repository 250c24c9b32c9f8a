package entity

// Frequency periodicidad de cobro de una línea o de un documento recurrente.
type Frequency string

const (
	FrequencyOneTime     Frequency = "one_time"
	FrequencyHourly      Frequency = "hourly"
	FrequencyTwelveHours Frequency = "twelve_hours"
	FrequencyDaily       Frequency = "daily"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyQuarterly   Frequency = "quarterly"
	FrequencySemiannual  Frequency = "semiannual"
	FrequencyAnnual      Frequency = "annual"
)

// IsRecurring informa si la frecuencia genera cobros periódicos.
func (f Frequency) IsRecurring() bool {
	return f != FrequencyOneTime && f != ""
}

// ValidForLine frecuencias admitidas en una línea de cotización.
func (f Frequency) ValidForLine() bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// ValidForInvoice frecuencias admitidas en facturas recurrentes.
func (f Frequency) ValidForInvoice() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// ValidForExpense frecuencias admitidas en gastos recurrentes (incluye las de granularidad fina).
func (f Frequency) ValidForExpense() bool {
	switch f {
	case FrequencyHourly, FrequencyTwelveHours, FrequencyDaily,
		FrequencyMonthly, FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual:
		return true
	}
	return false
}

// InstallmentMonths meses cubiertos por una cuota: mensual 1, trimestral 3, anual 12.
func (f Frequency) InstallmentMonths() int64 {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencySemiannual:
		return 6
	case FrequencyAnnual:
		return 12
	default:
		return 1
	}
}
