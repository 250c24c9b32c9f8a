package repository

// Page paginación de listados. Limit 0 = sin límite (lo usan el tablero y la sincronización).
type Page struct {
	Limit  int
	Offset int
}

// QuoteFilter filtros del listado de cotizaciones. Campos vacíos no filtran.
type QuoteFilter struct {
	Status        string
	ClientID      string
	SalespersonID string
	Page
}
