package postgres

import (
	"context"

	"github.com/gaze-network/boxsale/internal/postgres"
	"github.com/gaze-network/boxsale/modules/boxsale/datagateway"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.BoxSaleDataGatewayWithTx = (*Repository)(nil)

type Repository struct {
	db postgres.DB
	tx pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db: db,
	}
}

type batchQueryable interface {
	postgres.Queryable
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// conn returns the active transaction if any, otherwise the pool.
func (r *Repository) conn() batchQueryable {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
