package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// ClientAggregate summarises the analysed tickets of one client.
type ClientAggregate struct {
	TotalTickets      int
	AverageChurnScore float64
	PredominantRisk   *domain.ChurnRisk
}

// GlobalTotals are the headline dashboard numbers.
type GlobalTotals struct {
	TotalTickets            int
	TotalClientsWithTickets int
	GlobalChurnScore        float64
}

// DashboardRepository runs read-only aggregate queries.
type DashboardRepository interface {
	TopClients(ctx context.Context, since time.Time, limit int) ([]domain.TopClient, error)
	RiskBreakdown(ctx context.Context, clientID *int64) ([]domain.RiskCount, error)
	SentimentBreakdown(ctx context.Context) ([]domain.SentimentCount, error)
	Totals(ctx context.Context) (GlobalTotals, error)
	ClientAggregate(ctx context.Context, clientID int64) (ClientAggregate, error)
	RecentTickets(ctx context.Context, clientID int64, limit int) ([]domain.RecentTicket, error)
}

type dashboardRepository struct {
	db DBTX
}

// NewDashboardRepository instantiates repository.
func NewDashboardRepository(db DBTX) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) TopClients(ctx context.Context, since time.Time, limit int) ([]domain.TopClient, error) {
	const query = `
        SELECT cli.id, cli.name, COUNT(t.id),
               COALESCE(AVG(a.churn_score), 0)::float8 AS avg_score,
               MODE() WITHIN GROUP (ORDER BY a.churn_risk)
        FROM clients cli
        JOIN contracts c ON c.client_id = cli.id
        JOIN tickets t ON t.contract_id = c.id
        JOIN ticket_analyses a ON a.ticket_id = t.id
        WHERE t.created_at >= $1
        GROUP BY cli.id, cli.name
        HAVING COUNT(t.id) > 0
        ORDER BY avg_score DESC
        LIMIT $2`
	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TopClient{}
	for rows.Next() {
		var (
			top   domain.TopClient
			count int64
			risk  *string
		)
		if err := rows.Scan(&top.ClientID, &top.ClientName, &count, &top.AverageChurnScore, &risk); err != nil {
			return nil, err
		}
		top.TotalTickets = int(count)
		top.PredominantRisk = riskPtr(risk)
		result = append(result, top)
	}
	return result, rows.Err()
}

func (r *dashboardRepository) RiskBreakdown(ctx context.Context, clientID *int64) ([]domain.RiskCount, error) {
	q := psql.Select("a.churn_risk", "COUNT(*)").From("ticket_analyses a").GroupBy("a.churn_risk").OrderBy("a.churn_risk")
	if clientID != nil {
		q = q.Join("tickets t ON t.id = a.ticket_id").
			Join("contracts c ON c.id = t.contract_id").
			Where("c.client_id = ?", *clientID)
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

	result := []domain.RiskCount{}
	for rows.Next() {
		var (
			risk  *string
			count int64
		)
		if err := rows.Scan(&risk, &count); err != nil {
			return nil, err
		}
		result = append(result, domain.RiskCount{Risk: riskPtr(risk), Count: int(count)})
	}
	return result, rows.Err()
}

func (r *dashboardRepository) SentimentBreakdown(ctx context.Context) ([]domain.SentimentCount, error) {
	const query = `SELECT a.sentiment, COUNT(*) FROM ticket_analyses a GROUP BY a.sentiment ORDER BY a.sentiment`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.SentimentCount{}
	for rows.Next() {
		var (
			sentiment *string
			count     int64
		)
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, err
		}
		entry := domain.SentimentCount{Count: int(count)}
		if sentiment != nil {
			s := domain.Sentiment(*sentiment)
			entry.Sentiment = &s
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *dashboardRepository) Totals(ctx context.Context) (GlobalTotals, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM tickets),
            (SELECT COUNT(DISTINCT c.client_id) FROM contracts c JOIN tickets t ON t.contract_id = c.id),
            (SELECT COALESCE(AVG(churn_score), 0)::float8 FROM ticket_analyses)`
	var (
		totals           GlobalTotals
		tickets, clients int64
	)
	if err := r.db.QueryRow(ctx, query).Scan(&tickets, &clients, &totals.GlobalChurnScore); err != nil {
		return GlobalTotals{}, err
	}
	totals.TotalTickets = int(tickets)
	totals.TotalClientsWithTickets = int(clients)
	return totals, nil
}

func (r *dashboardRepository) ClientAggregate(ctx context.Context, clientID int64) (ClientAggregate, error) {
	const query = `
        SELECT COUNT(t.id),
               COALESCE(AVG(a.churn_score), 0)::float8,
               MODE() WITHIN GROUP (ORDER BY a.churn_risk)
        FROM contracts c
        JOIN tickets t ON t.contract_id = c.id
        JOIN ticket_analyses a ON a.ticket_id = t.id
        WHERE c.client_id = $1`
	var (
		agg   ClientAggregate
		count int64
		risk  *string
	)
	if err := r.db.QueryRow(ctx, query, clientID).Scan(&count, &agg.AverageChurnScore, &risk); err != nil {
		if err == pgx.ErrNoRows {
			return ClientAggregate{}, nil
		}
		return ClientAggregate{}, err
	}
	agg.TotalTickets = int(count)
	agg.PredominantRisk = riskPtr(risk)
	return agg, nil
}

func (r *dashboardRepository) RecentTickets(ctx context.Context, clientID int64, limit int) ([]domain.RecentTicket, error) {
	const query = `
        SELECT t.id, t.contract_id, c.project_name, t.title, t.description, t.priority, t.status, t.created_at,
               a.sentiment, a.frustration, a.churn_score, a.churn_risk,
               COALESCE(a.is_potential_phishing, FALSE), COALESCE(a.has_sensitive_data, FALSE)
        FROM contracts c
        JOIN tickets t ON t.contract_id = c.id
        LEFT JOIN ticket_analyses a ON a.ticket_id = t.id
        WHERE c.client_id = $1
        ORDER BY t.created_at DESC, t.id DESC
        LIMIT $2`
	rows, err := r.db.Query(ctx, query, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.RecentTicket{}
	for rows.Next() {
		var (
			rt                                       domain.RecentTicket
			priority, status, sentiment, frust, risk *string
			score                                    *int32
		)
		if err := rows.Scan(
			&rt.TicketID,
			&rt.ContractID,
			&rt.ProjectName,
			&rt.Title,
			&rt.Description,
			&priority,
			&status,
			&rt.CreatedAt,
			&sentiment,
			&frust,
			&score,
			&risk,
			&rt.IsPotentialPhishing,
			&rt.HasSensitiveData,
		); err != nil {
			return nil, err
		}
		if priority != nil {
			p := domain.TicketPriority(*priority)
			rt.Priority = &p
		}
		rt.Status = domain.TicketStatus(deref(status))
		if sentiment != nil {
			s := domain.Sentiment(*sentiment)
			rt.Sentiment = &s
		}
		if frust != nil {
			f := domain.Frustration(*frust)
			rt.Frustration = &f
		}
		if score != nil {
			v := int(*score)
			rt.ChurnScore = &v
		}
		rt.ChurnRisk = riskPtr(risk)
		result = append(result, rt)
	}
	return result, rows.Err()
}

func riskPtr(s *string) *domain.ChurnRisk {
	if s == nil {
		return nil
	}
	r := domain.ChurnRisk(*s)
	return &r
}
