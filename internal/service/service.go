// Package service holds the business logic between the HTTP handlers and
// the repositories.
package service

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is the slice of pgxpool.Pool the services need to run
// multi-statement transactions.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}
