package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/ledger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Execer is the part of pgxpool.Pool the ledger needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PGLedgerRepository stores ledger rows in an append-only table:
//
//	CREATE TABLE ledger_rows (
//	    id                 BIGSERIAL PRIMARY KEY,
//	    cells              JSONB NOT NULL,
//	    value_input_option TEXT NOT NULL DEFAULT '',
//	    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PGLedgerRepository struct {
	db Execer
}

func NewLedgerRepository(db *pgxpool.Pool) *PGLedgerRepository {
	return &PGLedgerRepository{db: db}
}

func (r *PGLedgerRepository) AppendRow(ctx context.Context, cells []any, opts ledger.AppendOptions) error {
	payload, err := json.Marshal(cells)
	if err != nil {
		return domain.InternalError{Msg: "encode ledger row", Err: err}
	}

	cmd, err := r.db.Exec(ctx, `INSERT INTO ledger_rows (cells, value_input_option) VALUES ($1, $2)`, payload, opts.ValueInputOption)
	if err != nil {
		return classifyPGError(err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.InternalError{Msg: fmt.Sprintf("ledger insert affected %d rows", cmd.RowsAffected())}
	}
	return nil
}

// classifyPGError maps SQLSTATE classes onto the store error taxonomy.
func classifyPGError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "53" || pgErr.Code[:2] == "57"):
			return domain.TransientStoreError{Msg: "ledger database unavailable", Err: err}
		case pgErr.Code == "40001" || pgErr.Code == "40P01":
			return domain.TransientStoreError{Msg: "ledger write conflict", Err: err}
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "28":
			return domain.PermanentStoreError{Msg: "ledger database rejected credentials", Err: err}
		case pgErr.Code == "42P01":
			return domain.PermanentStoreError{Msg: "ledger table not found", Err: err}
		default:
			return domain.PermanentStoreError{Msg: "ledger insert rejected", Err: err}
		}
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return domain.TransientStoreError{Msg: "ledger database unreachable", Err: err}
	}
	return domain.TransientStoreError{Msg: "ledger database error", Err: err}
}

var _ ledger.Client = (*PGLedgerRepository)(nil)
