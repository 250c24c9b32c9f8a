package dto

import "time"

// ClientRequest body de alta/edición de cliente.
type ClientRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	LeadID      string    `json:"lead_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeadRequest body de alta/edición de lead.
type LeadRequest struct {
	Name          string `json:"name"`
	CompanyName   string `json:"company_name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Source        string `json:"source,omitempty"`
	SalespersonID string `json:"salesperson_id,omitempty"`
	Visits        int    `json:"visits"`
}

// LeadResponse lead en respuestas.
type LeadResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CompanyName       string    `json:"company_name,omitempty"`
	Email             string    `json:"email,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Source            string    `json:"source,omitempty"`
	SalespersonID     string    `json:"salesperson_id,omitempty"`
	Status            string    `json:"status"`
	ConvertedClientID string    `json:"converted_client_id,omitempty"`
	Visits            int       `json:"visits"`
	CreatedAt         time.Time `json:"created_at"`
}
