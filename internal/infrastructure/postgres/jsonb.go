package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// Formas JSONB de los valores anidados. Se mantienen separadas de las entidades para que un
// renombre en el dominio no rompa filas ya guardadas.

type adjustmentJSON struct {
	Value decimal.Decimal `json:"value"`
	Kind  string          `json:"kind"`
}

type lineJSON struct {
	ServiceID        string          `json:"service_id,omitempty"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	BillingFrequency string          `json:"billing_frequency"`
	ContractMonths   int             `json:"contract_months"`
	DownPayment      adjustmentJSON  `json:"down_payment"`
}

type paymentJSON struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

type invoiceScheduleJSON struct {
	Frequency     string          `json:"frequency"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	LastGenerated time.Time       `json:"last_generated"`
	CycleAmount   decimal.Decimal `json:"cycle_amount"`
}

type expenseScheduleJSON struct {
	Frequency       string    `json:"frequency"`
	RemainingCycles *int      `json:"remaining_cycles,omitempty"`
	LastGenerated   time.Time `json:"last_generated"`
}

type tierJSON struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

type brandingJSON struct {
	LetterheadURL string `json:"letterhead_url,omitempty"`
	TaxID         string `json:"tax_id,omitempty"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	BankDetails   string `json:"bank_details,omitempty"`
	Terms         string `json:"terms,omitempty"`
}

func encodeItems(items []entity.QuoteLineItem) ([]byte, error) {
	out := make([]lineJSON, 0, len(items))
	for _, it := range items {
		out = append(out, lineJSON{
			ServiceID:        it.ServiceID,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			UnitCost:         it.UnitCost,
			BillingFrequency: string(it.BillingFrequency),
			ContractMonths:   it.ContractMonths,
			DownPayment:      adjustmentJSON{Value: it.DownPayment.Value, Kind: string(it.DownPayment.Kind)},
		})
	}
	return json.Marshal(out)
}

func decodeItems(raw []byte) ([]entity.QuoteLineItem, error) {
	var in []lineJSON
	if err := unmarshalNullable(raw, &in); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	out := make([]entity.QuoteLineItem, 0, len(in))
	for _, l := range in {
		out = append(out, entity.QuoteLineItem{
			ServiceID:        l.ServiceID,
			Description:      l.Description,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			UnitCost:         l.UnitCost,
			BillingFrequency: entity.Frequency(l.BillingFrequency),
			ContractMonths:   l.ContractMonths,
			DownPayment:      entity.Adjustment{Value: l.DownPayment.Value, Kind: entity.AmountKind(l.DownPayment.Kind)},
		})
	}
	return out, nil
}

func encodePayments(ps []entity.PaymentRecord) ([]byte, error) {
	out := make([]paymentJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentJSON(p))
	}
	return json.Marshal(out)
}

func decodePayments(raw []byte) ([]entity.PaymentRecord, error) {
	var in []paymentJSON
	if err := unmarshalNullable(raw, &in); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	out := make([]entity.PaymentRecord, 0, len(in))
	for _, p := range in {
		out = append(out, entity.PaymentRecord(p))
	}
	return out, nil
}

func encodeInvoiceSchedule(s *entity.InvoiceSchedule) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(invoiceScheduleJSON{
		Frequency:     string(s.Frequency),
		EndDate:       s.EndDate,
		LastGenerated: s.LastGenerated,
		CycleAmount:   s.CycleAmount,
	})
}

func decodeInvoiceSchedule(raw []byte) (*entity.InvoiceSchedule, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var in invoiceScheduleJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode invoice schedule: %w", err)
	}
	return &entity.InvoiceSchedule{
		Frequency:     entity.Frequency(in.Frequency),
		EndDate:       in.EndDate,
		LastGenerated: in.LastGenerated,
		CycleAmount:   in.CycleAmount,
	}, nil
}

func encodeExpenseSchedule(s *entity.ExpenseSchedule) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(expenseScheduleJSON{
		Frequency:       string(s.Frequency),
		RemainingCycles: s.RemainingCycles,
		LastGenerated:   s.LastGenerated,
	})
}

func decodeExpenseSchedule(raw []byte) (*entity.ExpenseSchedule, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var in expenseScheduleJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode expense schedule: %w", err)
	}
	return &entity.ExpenseSchedule{
		Frequency:       entity.Frequency(in.Frequency),
		RemainingCycles: in.RemainingCycles,
		LastGenerated:   in.LastGenerated,
	}, nil
}

func encodeTiers(ts []entity.CommissionTier) ([]byte, error) {
	out := make([]tierJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, tierJSON(t))
	}
	return json.Marshal(out)
}

func decodeTiers(raw []byte) ([]entity.CommissionTier, error) {
	var in []tierJSON
	if err := unmarshalNullable(raw, &in); err != nil {
		return nil, fmt.Errorf("decode tiered rates: %w", err)
	}
	out := make([]entity.CommissionTier, 0, len(in))
	for _, t := range in {
		out = append(out, entity.CommissionTier(t))
	}
	return out, nil
}

func unmarshalNullable(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
