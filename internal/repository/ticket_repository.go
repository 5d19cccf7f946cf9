package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	ContractID *int64
	ClientID   *int64
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	ChurnRisks []domain.ChurnRisk
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	UpdateClassification(ctx context.Context, ticket *domain.Ticket, ticketType domain.TicketType, priority domain.TicketPriority) error
	GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error)
	ListWithAnalysis(ctx context.Context, filter TicketFilter) ([]domain.TicketWithAnalysis, error)
}

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `t.id, t.contract_id, t.title, t.description, t.type, t.priority, t.status, t.created_at, t.closed_at`

const analysisColumns = `a.id, a.sentiment, a.frustration, a.churn_score, a.churn_risk,
        a.is_potential_phishing, a.has_sensitive_data, a.recommendations, a.analyzed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (contract_id, title, description, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		ticket.ContractID,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) UpdateClassification(ctx context.Context, ticket *domain.Ticket, ticketType domain.TicketType, priority domain.TicketPriority) error {
	const query = `UPDATE tickets SET type=$1, priority=$2 WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, string(ticketType), string(priority), ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	ticket.Type = &ticketType
	ticket.Priority = &priority
	return nil
}

func (r *ticketRepository) GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	query := `
        SELECT ` + ticketColumns + `, ` + analysisColumns + `,
               c.project_name, cli.name, cli.tax_id
        FROM tickets t
        LEFT JOIN ticket_analyses a ON a.ticket_id = t.id
        LEFT JOIN contracts c ON c.id = t.contract_id
        LEFT JOIN clients cli ON cli.id = c.client_id
        WHERE t.id = $1`

	var (
		row    ticketAnalysisRow
		detail domain.TicketDetail
	)
	dest := append(row.dest(), &detail.ContractName, &detail.ClientName, &detail.ClientTaxID)
	if err := r.db.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		return nil, err
	}
	detail.TicketWithAnalysis = row.toDomain()
	return &detail, nil
}

func (r *ticketRepository) ListWithAnalysis(ctx context.Context, filter TicketFilter) ([]domain.TicketWithAnalysis, error) {
	query, args, err := ticketListQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketWithAnalysis
	for rows.Next() {
		var row ticketAnalysisRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, err
		}
		result = append(result, row.toDomain())
	}
	return result, rows.Err()
}

// ticketListQuery builds the filtered, newest-first listing query.
func ticketListQuery(filter TicketFilter) sq.SelectBuilder {
	q := psql.Select(ticketColumns, analysisColumns).
		From("tickets t").
		LeftJoin("ticket_analyses a ON a.ticket_id = t.id").
		OrderBy("t.created_at DESC", "t.id DESC")

	if filter.ContractID != nil {
		q = q.Where(sq.Eq{"t.contract_id": *filter.ContractID})
	}
	if filter.ClientID != nil {
		q = q.Join("contracts c ON c.id = t.contract_id").Where(sq.Eq{"c.client_id": *filter.ClientID})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"t.status": toStrings(filter.Statuses)})
	}
	if len(filter.Priorities) > 0 {
		q = q.Where(sq.Eq{"t.priority": toStrings(filter.Priorities)})
	}
	if len(filter.ChurnRisks) > 0 {
		q = q.Where(sq.Eq{"a.churn_risk": toStrings(filter.ChurnRisks)})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

// ticketAnalysisRow holds one tickets LEFT JOIN ticket_analyses row. The
// analysis columns are all NULL when the ticket has no analysis.
type ticketAnalysisRow struct {
	ticket      domain.Ticket
	ticketType  *string
	priority    *string
	status      string
	analysisID  *int64
	sentiment   *string
	frustration *string
	churnScore  *int32
	churnRisk   *string
	phishing    *bool
	sensitive   *bool
	recs        *string
	analyzedAt  *time.Time
}

func (r *ticketAnalysisRow) dest() []any {
	return []any{
		&r.ticket.ID,
		&r.ticket.ContractID,
		&r.ticket.Title,
		&r.ticket.Description,
		&r.ticketType,
		&r.priority,
		&r.status,
		&r.ticket.CreatedAt,
		&r.ticket.ClosedAt,
		&r.analysisID,
		&r.sentiment,
		&r.frustration,
		&r.churnScore,
		&r.churnRisk,
		&r.phishing,
		&r.sensitive,
		&r.recs,
		&r.analyzedAt,
	}
}

func (r *ticketAnalysisRow) toDomain() domain.TicketWithAnalysis {
	t := r.ticket
	t.Status = domain.TicketStatus(r.status)
	if r.ticketType != nil {
		v := domain.TicketType(*r.ticketType)
		t.Type = &v
	}
	if r.priority != nil {
		v := domain.TicketPriority(*r.priority)
		t.Priority = &v
	}
	out := domain.TicketWithAnalysis{Ticket: t}
	if r.analysisID == nil {
		return out
	}
	a := &domain.Analysis{ID: *r.analysisID, TicketID: t.ID}
	a.Sentiment = domain.Sentiment(deref(r.sentiment))
	a.Frustration = domain.Frustration(deref(r.frustration))
	if r.churnScore != nil {
		a.ChurnScore = int(*r.churnScore)
	}
	a.ChurnRisk = domain.ChurnRisk(deref(r.churnRisk))
	a.IsPotentialPhishing = r.phishing != nil && *r.phishing
	a.HasSensitiveData = r.sensitive != nil && *r.sensitive
	a.Recommendations = deref(r.recs)
	if r.analyzedAt != nil {
		a.AnalyzedAt = *r.analyzedAt
	}
	if t.Type != nil {
		a.TicketType = *t.Type
	}
	if t.Priority != nil {
		a.TicketPriority = *t.Priority
	}
	out.Analysis = a
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
