package dto

import (
	"time"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ContractID  int64  `json:"contractId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TicketResponse is a ticket with its description already redacted.
type TicketResponse struct {
	ID          int64                  `json:"id"`
	ContractID  int64                  `json:"contractId"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Type        *domain.TicketType     `json:"type"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus    `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
	ClosedAt    *time.Time             `json:"closedAt"`
}

// AnalysisResponse is a persisted analysis.
type AnalysisResponse struct {
	ID                  int64                 `json:"id"`
	TicketID            int64                 `json:"ticketId"`
	Sentiment           domain.Sentiment      `json:"sentiment"`
	Frustration         domain.Frustration    `json:"frustration"`
	ChurnScore          int                   `json:"churnScore"`
	ChurnRisk           domain.ChurnRisk      `json:"churnRisk"`
	IsPotentialPhishing bool                  `json:"isPotentialPhishing"`
	HasSensitiveData    bool                  `json:"hasSensitiveData"`
	TicketType          domain.TicketType     `json:"ticketType,omitempty"`
	TicketPriority      domain.TicketPriority `json:"ticketPriority,omitempty"`
	Recommendations     string                `json:"recommendations"`
	AnalyzedAt          time.Time             `json:"analyzedAt"`
}

// TicketWithAnalysisResponse pairs a ticket with its analysis, if any.
type TicketWithAnalysisResponse struct {
	Ticket   TicketResponse    `json:"ticket"`
	Analysis *AnalysisResponse `json:"analysis"`
}

// CreateTicketResponse is returned by ticket intake.
type CreateTicketResponse struct {
	Ticket   TicketResponse   `json:"ticket"`
	Analysis AnalysisResponse `json:"analysis"`
	Source   string           `json:"source"`
}

// TicketListResponse wraps ticket listings.
type TicketListResponse struct {
	Items []TicketWithAnalysisResponse `json:"items"`
}

// TicketDetailResponse adds contract and client labels.
type TicketDetailResponse struct {
	TicketWithAnalysisResponse
	ContractName *string `json:"contractName"`
	ClientName   *string `json:"clientName"`
	ClientTaxID  *string `json:"clientTaxId"`
}
