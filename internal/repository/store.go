package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so repositories run the
// same queries inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store groups the repositories bound to one connection or transaction.
type Store interface {
	Tickets() TicketRepository
	Analyses() AnalysisRepository
	Clients() ClientRepository
	Contracts() ContractRepository
	Dashboard() DashboardRepository
}

// TxManager runs a unit of work inside one transaction. The transaction
// commits when fn returns nil and rolls back on error or panic.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type store struct {
	db DBTX
}

// NewStore binds all repositories to db.
func NewStore(db DBTX) Store {
	return &store{db: db}
}

func (s *store) Tickets() TicketRepository { return &ticketRepository{db: s.db} }
func (s *store) Analyses() AnalysisRepository { return &analysisRepository{db: s.db} }
func (s *store) Clients() ClientRepository { return &clientRepository{db: s.db} }
func (s *store) Contracts() ContractRepository { return &contractRepository{db: s.db} }
func (s *store) Dashboard() DashboardRepository { return &dashboardRepository{db: s.db} }

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager builds a TxManager over a pgx pool. The connection is
// acquired for the transaction and released on every exit path.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewStore(tx))
	})
}
