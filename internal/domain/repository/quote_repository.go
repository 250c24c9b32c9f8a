package repository

import (
	"context"

	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para las versiones de cotización.
// Cada versión es una fila; la familia se arma con ListByRoot.
type QuoteRepository interface {
	Create(ctx context.Context, q *entity.Quote) error
	// Update reemplaza la versión completa (líneas, totales, estado).
	Update(ctx context.Context, q *entity.Quote) error
	// GetByID retorna nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// ListByRoot todas las versiones de la familia rootID, ordenadas por Version.
	ListByRoot(ctx context.Context, rootID string) ([]*entity.Quote, error)
	List(ctx context.Context, f QuoteFilter) ([]*entity.Quote, error)
}
