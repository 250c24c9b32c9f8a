package entity

import "time"

// Client cliente con el que ya existe relación comercial.
type Client struct {
	ID          string
	Name        string
	CompanyName string
	TaxID       string
	Email       string
	Phone       string
	Address     string
	LeadID      string // lead de origen, si vino de una conversión
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Estados de un Lead.
const (
	LeadStatusPotential = "potential"
	LeadStatusConverted = "converted"
)

// Lead prospecto. Pasa a Client una sola vez, cuando se guarda una cotización dirigida a él.
type Lead struct {
	ID                string
	Name              string
	CompanyName       string
	Email             string
	Phone             string
	Source            string
	SalespersonID     string
	Status            string // potential, converted
	ConvertedClientID string
	Visits            int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsConverted informa si el lead ya generó su Client.
func (l Lead) IsConverted() bool {
	return l.Status == LeadStatusConverted
}
