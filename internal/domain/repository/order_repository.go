package repository

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// OrderRepository reads orders from the storefront's order system. Read-only:
// (nil, nil) when the order does not exist (or was purged).
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
