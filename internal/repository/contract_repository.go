package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// ContractFilter narrows contract listings.
type ContractFilter struct {
	ClientID *int64
	Status   *domain.ContractStatus
}

// ContractRepository encapsulates contract persistence.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
}

type contractRepository struct {
	db DBTX
}

// NewContractRepository instantiates repository.
func NewContractRepository(db DBTX) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	const query = `
        WITH inserted AS (
            INSERT INTO contracts (client_id, project_name, start_date, end_date, status, service_level)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id, client_id
        )
        SELECT inserted.id, cli.name FROM inserted JOIN clients cli ON cli.id = inserted.client_id`
	return r.db.QueryRow(ctx, query,
		contract.ClientID,
		contract.ProjectName,
		contract.StartDate,
		contract.EndDate,
		string(contract.Status),
		contract.ServiceLevel,
	).Scan(&contract.ID, &contract.ClientName)
}

func (r *contractRepository) List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error) {
	q := psql.Select("c.id", "c.client_id", "cli.name", "c.project_name", "c.start_date", "c.end_date", "c.status", "c.service_level").
		From("contracts c").
		Join("clients cli ON cli.id = c.client_id").
		OrderBy("c.start_date DESC NULLS LAST", "c.id DESC")
	if filter.ClientID != nil {
		q = q.Where(sq.Eq{"c.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		q = q.Where(sq.Eq{"c.status": string(*filter.Status)})
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

	var result []domain.Contract
	for rows.Next() {
		var (
			contract domain.Contract
			status   string
		)
		if err := rows.Scan(
			&contract.ID,
			&contract.ClientID,
			&contract.ClientName,
			&contract.ProjectName,
			&contract.StartDate,
			&contract.EndDate,
			&status,
			&contract.ServiceLevel,
		); err != nil {
			return nil, err
		}
		contract.Status = domain.ContractStatus(status)
		result = append(result, contract)
	}
	return result, rows.Err()
}
