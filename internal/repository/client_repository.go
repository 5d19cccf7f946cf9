package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// ClientFilter narrows client listings.
type ClientFilter struct {
	Status *domain.ClientStatus
	Search string
}

// ClientRepository encapsulates client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByTaxID(ctx context.Context, taxID string) (*domain.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
	ContextForContract(ctx context.Context, contractID int64) (*domain.ClientContext, error)
}

type clientRepository struct {
	db DBTX
}

// NewClientRepository instantiates repository.
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `cli.id, cli.name, cli.tax_id, cli.sector, cli.relationship_start, cli.status, cli.created_at,
        (SELECT COUNT(*) FROM contracts c WHERE c.client_id = cli.id)`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, tax_id, sector, relationship_start, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		client.Name,
		client.TaxID,
		client.Sector,
		client.RelationshipStart,
		string(client.Status),
	).Scan(&client.ID, &client.CreatedAt)
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.fetchSingle(ctx, `SELECT `+clientColumns+` FROM clients cli WHERE cli.id=$1`, id)
}

func (r *clientRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Client, error) {
	return r.fetchSingle(ctx, `SELECT `+clientColumns+` FROM clients cli WHERE cli.tax_id=$1`, taxID)
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var (
		client domain.Client
		status string
		count  int64
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&client.ID,
		&client.Name,
		&client.TaxID,
		&client.Sector,
		&client.RelationshipStart,
		&status,
		&client.CreatedAt,
		&count,
	); err != nil {
		return nil, err
	}
	client.Status = domain.ClientStatus(status)
	client.ContractCount = int(count)
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter) ([]domain.Client, error) {
	q := psql.Select(clientColumns).From("clients cli").OrderBy("cli.name ASC")
	if filter.Status != nil {
		q = q.Where(sq.Eq{"cli.status": string(*filter.Status)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(sq.Or{
			sq.Like{"LOWER(cli.name)": pattern},
			sq.Like{"LOWER(cli.tax_id)": pattern},
		})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var (
			client domain.Client
			status string
			count  int64
		)
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.TaxID,
			&client.Sector,
			&client.RelationshipStart,
			&status,
			&client.CreatedAt,
			&count,
		); err != nil {
			return nil, err
		}
		client.Status = domain.ClientStatus(status)
		client.ContractCount = int(count)
		result = append(result, client)
	}
	return result, rows.Err()
}

// ContextForContract returns pgx.ErrNoRows when no client owns the contract.
func (r *clientRepository) ContextForContract(ctx context.Context, contractID int64) (*domain.ClientContext, error) {
	const query = `
        SELECT cli.name, cli.relationship_start,
               (SELECT COUNT(*) FROM contracts c2 WHERE c2.client_id = c.client_id)
        FROM contracts c
        INNER JOIN clients cli ON cli.id = c.client_id
        WHERE c.id = $1
        LIMIT 1`
	var (
		cc    domain.ClientContext
		start *time.Time
		total int64
	)
	if err := r.db.QueryRow(ctx, query, contractID).Scan(&cc.Name, &start, &total); err != nil {
		return nil, err
	}
	cc.RelationshipStart = start
	cc.TotalContracts = int(total)
	return &cc, nil
}
