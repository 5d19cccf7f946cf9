package repository

import (
	"context"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// AnalysisRepository persists analysis rows. Rows are written once and never updated.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
}

type analysisRepository struct {
	db DBTX
}

// NewAnalysisRepository instantiates repository.
func NewAnalysisRepository(db DBTX) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *domain.Analysis) error {
	const query = `
        INSERT INTO ticket_analyses (ticket_id, sentiment, frustration, churn_score, churn_risk,
            is_potential_phishing, has_sensitive_data, recommendations)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, analyzed_at`
	return r.db.QueryRow(ctx, query,
		analysis.TicketID,
		string(analysis.Sentiment),
		string(analysis.Frustration),
		analysis.ChurnScore,
		string(analysis.ChurnRisk),
		analysis.IsPotentialPhishing,
		analysis.HasSensitiveData,
		analysis.Recommendations,
	).Scan(&analysis.ID, &analysis.AnalyzedAt)
}
