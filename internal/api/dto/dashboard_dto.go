package dto

import (
	"time"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// TopClientResponse ranks a client by average churn score.
type TopClientResponse struct {
	ClientID          int64             `json:"clientId"`
	ClientName        string            `json:"clientName"`
	TotalTickets      int               `json:"totalTickets"`
	AverageChurnScore float64           `json:"averageChurnScore"`
	PredominantRisk   *domain.ChurnRisk `json:"predominantRisk"`
}

// SentimentCountResponse is one sentiment bucket.
type SentimentCountResponse struct {
	Sentiment *domain.Sentiment `json:"sentiment"`
	Count     int               `json:"count"`
}

// DashboardSummaryResponse is the global dashboard.
type DashboardSummaryResponse struct {
	TopClients              []TopClientResponse      `json:"topClients"`
	RiskBreakdown           []RiskCountResponse      `json:"riskBreakdown"`
	SentimentBreakdown      []SentimentCountResponse `json:"sentimentBreakdown"`
	TotalTickets            int                      `json:"totalTickets"`
	TotalClientsWithTickets int                      `json:"totalClientsWithTickets"`
	GlobalChurnScore        float64                  `json:"globalChurnScore"`
	GeneratedAt             time.Time                `json:"generatedAt"`
}
