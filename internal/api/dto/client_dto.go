package dto

import (
	"time"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// CreateClientRequest payload. Dates are YYYY-MM-DD or RFC 3339.
type CreateClientRequest struct {
	Name              string              `json:"name"`
	TaxID             string              `json:"taxId"`
	Sector            *string             `json:"sector"`
	RelationshipStart *string             `json:"relationshipStart"`
	Status            domain.ClientStatus `json:"status"`
}

// CreateContractRequest payload.
type CreateContractRequest struct {
	ClientID     int64                 `json:"clientId"`
	ProjectName  string                `json:"projectName"`
	StartDate    *string               `json:"startDate"`
	EndDate      *string               `json:"endDate"`
	Status       domain.ContractStatus `json:"status"`
	ServiceLevel *string               `json:"serviceLevel"`
}

// ClientResponse describes a client.
type ClientResponse struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	TaxID             string              `json:"taxId"`
	Sector            *string             `json:"sector"`
	RelationshipStart *string             `json:"relationshipStart"`
	Status            domain.ClientStatus `json:"status"`
	ContractCount     int                 `json:"contractCount"`
	CreatedAt         time.Time           `json:"createdAt"`
}

// ContractResponse describes a contract.
type ContractResponse struct {
	ID           int64                 `json:"id"`
	ClientID     int64                 `json:"clientId"`
	ClientName   string                `json:"clientName"`
	ProjectName  string                `json:"projectName"`
	StartDate    *string               `json:"startDate"`
	EndDate      *string               `json:"endDate"`
	Status       domain.ContractStatus `json:"status"`
	ServiceLevel *string               `json:"serviceLevel"`
}

// RiskCountResponse is one churn risk bucket.
type RiskCountResponse struct {
	ChurnRisk *domain.ChurnRisk `json:"churnRisk"`
	Count     int               `json:"count"`
}

// RecentTicketResponse is a ticket row in a client summary.
type RecentTicketResponse struct {
	TicketID            int64                  `json:"ticketId"`
	ContractID          int64                  `json:"contractId"`
	ProjectName         string                 `json:"projectName"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Priority            *domain.TicketPriority `json:"priority"`
	Status              domain.TicketStatus    `json:"status"`
	CreatedAt           time.Time              `json:"createdAt"`
	Sentiment           *domain.Sentiment      `json:"sentiment"`
	Frustration         *domain.Frustration    `json:"frustration"`
	ChurnScore          *int                   `json:"churnScore"`
	ChurnRisk           *domain.ChurnRisk      `json:"churnRisk"`
	IsPotentialPhishing bool                   `json:"isPotentialPhishing"`
	HasSensitiveData    bool                   `json:"hasSensitiveData"`
}

// ClientSummaryResponse is the per-client dashboard.
type ClientSummaryResponse struct {
	Client            ClientResponse         `json:"client"`
	Contracts         []ContractResponse     `json:"contracts"`
	TotalTickets      int                    `json:"totalTickets"`
	AverageChurnScore float64                `json:"averageChurnScore"`
	PredominantRisk   *domain.ChurnRisk      `json:"predominantRisk"`
	TicketsByRisk     []RiskCountResponse    `json:"ticketsByRisk"`
	RecentTickets     []RecentTicketResponse `json:"recentTickets"`
}

// ClientLookupResponse is returned by tax id lookups.
type ClientLookupResponse struct {
	Client          ClientResponse     `json:"client"`
	ActiveContracts []ContractResponse `json:"activeContracts"`
}
