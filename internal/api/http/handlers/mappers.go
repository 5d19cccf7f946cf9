package handlers

import (
	"strings"
	"time"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/domain"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          t.ID,
		ContractID:  t.ContractID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		ClosedAt:    t.ClosedAt,
	}
}

func analysisResponse(a *domain.Analysis) dto.AnalysisResponse {
	return dto.AnalysisResponse{
		ID:                  a.ID,
		TicketID:            a.TicketID,
		Sentiment:           a.Sentiment,
		Frustration:         a.Frustration,
		ChurnScore:          a.ChurnScore,
		ChurnRisk:           a.ChurnRisk,
		IsPotentialPhishing: a.IsPotentialPhishing,
		HasSensitiveData:    a.HasSensitiveData,
		TicketType:          a.TicketType,
		TicketPriority:      a.TicketPriority,
		Recommendations:     a.Recommendations,
		AnalyzedAt:          a.AnalyzedAt,
	}
}

func ticketWithAnalysisResponse(item *domain.TicketWithAnalysis) dto.TicketWithAnalysisResponse {
	out := dto.TicketWithAnalysisResponse{Ticket: ticketResponse(&item.Ticket)}
	if item.Analysis != nil {
		a := analysisResponse(item.Analysis)
		out.Analysis = &a
	}
	return out
}

func clientResponse(c *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:                c.ID,
		Name:              c.Name,
		TaxID:             c.TaxID,
		Sector:            c.Sector,
		RelationshipStart: formatDate(c.RelationshipStart),
		Status:            c.Status,
		ContractCount:     c.ContractCount,
		CreatedAt:         c.CreatedAt,
	}
}

func contractResponses(contracts []domain.Contract) []dto.ContractResponse {
	out := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, contractResponse(&contracts[i]))
	}
	return out
}

func contractResponse(c *domain.Contract) dto.ContractResponse {
	return dto.ContractResponse{
		ID:           c.ID,
		ClientID:     c.ClientID,
		ClientName:   c.ClientName,
		ProjectName:  c.ProjectName,
		StartDate:    formatDate(c.StartDate),
		EndDate:      formatDate(c.EndDate),
		Status:       c.Status,
		ServiceLevel: c.ServiceLevel,
	}
}

func riskCountResponses(counts []domain.RiskCount) []dto.RiskCountResponse {
	out := make([]dto.RiskCountResponse, 0, len(counts))
	for _, rc := range counts {
		out = append(out, dto.RiskCountResponse{ChurnRisk: rc.Risk, Count: rc.Count})
	}
	return out
}

func recentTicketResponse(rt *domain.RecentTicket) dto.RecentTicketResponse {
	return dto.RecentTicketResponse{
		TicketID:            rt.TicketID,
		ContractID:          rt.ContractID,
		ProjectName:         rt.ProjectName,
		Title:               rt.Title,
		Description:         rt.Description,
		Priority:            rt.Priority,
		Status:              rt.Status,
		CreatedAt:           rt.CreatedAt,
		Sentiment:           rt.Sentiment,
		Frustration:         rt.Frustration,
		ChurnScore:          rt.ChurnScore,
		ChurnRisk:           rt.ChurnRisk,
		IsPotentialPhishing: rt.IsPotentialPhishing,
		HasSensitiveData:    rt.HasSensitiveData,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	val := strings.TrimSpace(*raw)
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError(field+" must be a date (YYYY-MM-DD)", map[string]any{field: val})
}
