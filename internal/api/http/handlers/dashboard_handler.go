package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/service"
)

// DashboardHandler serves the global dashboard.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Summary GET /dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}

	top := make([]dto.TopClientResponse, 0, len(summary.TopClients))
	for _, tc := range summary.TopClients {
		top = append(top, dto.TopClientResponse{
			ClientID:          tc.ClientID,
			ClientName:        tc.ClientName,
			TotalTickets:      tc.TotalTickets,
			AverageChurnScore: tc.AverageChurnScore,
			PredominantRisk:   tc.PredominantRisk,
		})
	}
	sentiments := make([]dto.SentimentCountResponse, 0, len(summary.SentimentBreakdown))
	for _, sc := range summary.SentimentBreakdown {
		sentiments = append(sentiments, dto.SentimentCountResponse{Sentiment: sc.Sentiment, Count: sc.Count})
	}

	return c.JSON(dto.DashboardSummaryResponse{
		TopClients:              top,
		RiskBreakdown:           riskCountResponses(summary.RiskBreakdown),
		SentimentBreakdown:      sentiments,
		TotalTickets:            summary.TotalTickets,
		TotalClientsWithTickets: summary.TotalClientsWithTicket,
		GlobalChurnScore:        summary.GlobalChurnScore,
		GeneratedAt:             summary.GeneratedAt,
	})
}
