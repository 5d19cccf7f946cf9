package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusEntered           TicketStatus = "ENTERED"
	TicketStatusBlockedBySecurity TicketStatus = "BLOCKED_BY_SECURITY"
)

// TicketType classifies the kind of work a ticket asks for.
type TicketType string

const (
	TicketTypeCorrective TicketType = "CORRECTIVE"
	TicketTypeEvolutive  TicketType = "EVOLUTIVE"
	TicketTypeOther      TicketType = "OTHER"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// TicketInput is the caller-supplied payload for ticket intake.
type TicketInput struct {
	ContractID  int64
	Title       string
	Description string
}

// Ticket is the persisted support request. Type and Priority stay nil until
// analysis back-fills them.
type Ticket struct {
	ID          int64
	ContractID  int64
	Title       string
	Description string
	Type        *TicketType
	Priority    *TicketPriority
	Status      TicketStatus
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

// TicketWithAnalysis pairs a ticket with its analysis row, if any.
type TicketWithAnalysis struct {
	Ticket   Ticket
	Analysis *Analysis
}

// TicketDetail extends TicketWithAnalysis with contract and client labels.
type TicketDetail struct {
	TicketWithAnalysis
	ContractName *string
	ClientName   *string
	ClientTaxID  *string
}
