package events

import (
	"time"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAnalyzed EventType = "ticket_analyzed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticketId"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketAnalyzedPayload is published once a ticket and its analysis commit.
type TicketAnalyzedPayload struct {
	ContractID int64                 `json:"contractId"`
	Status     domain.TicketStatus   `json:"status"`
	ChurnScore int                   `json:"churnScore"`
	ChurnRisk  domain.ChurnRisk      `json:"churnRisk"`
	Priority   domain.TicketPriority `json:"priority"`
	Phishing   bool                  `json:"isPotentialPhishing"`
	Sensitive  bool                  `json:"hasSensitiveData"`
	Source     string                `json:"source"`
}
