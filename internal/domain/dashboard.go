package domain

import "time"

// RiskCount is the number of analysed tickets in one churn risk bucket.
type RiskCount struct {
	Risk  *ChurnRisk
	Count int
}

// SentimentCount is the number of analysed tickets with one sentiment.
type SentimentCount struct {
	Sentiment *Sentiment
	Count     int
}

// TopClient ranks a client by its average churn score.
type TopClient struct {
	ClientID          int64
	ClientName        string
	TotalTickets      int
	AverageChurnScore float64
	PredominantRisk   *ChurnRisk
}

// DashboardSummary is the global view.
type DashboardSummary struct {
	TopClients             []TopClient
	RiskBreakdown          []RiskCount
	SentimentBreakdown     []SentimentCount
	TotalTickets           int
	TotalClientsWithTicket int
	GlobalChurnScore       float64
	GeneratedAt            time.Time
}

// RecentTicket is a row of a client's latest tickets.
type RecentTicket struct {
	TicketID            int64
	ContractID          int64
	ProjectName         string
	Title               string
	Description         string
	Priority            *TicketPriority
	Status              TicketStatus
	CreatedAt           time.Time
	Sentiment           *Sentiment
	Frustration         *Frustration
	ChurnScore          *int
	ChurnRisk           *ChurnRisk
	IsPotentialPhishing bool
	HasSensitiveData    bool
}

// ClientSummary is the per-client dashboard.
type ClientSummary struct {
	Client            Client
	Contracts         []Contract
	TotalTickets      int
	AverageChurnScore float64
	PredominantRisk   *ChurnRisk
	TicketsByRisk     []RiskCount
	RecentTickets     []RecentTicket
}

// ClientWithActiveContracts is returned by tax id lookups.
type ClientWithActiveContracts struct {
	Client          Client
	ActiveContracts []Contract
}
