package domain

import "time"

// ClientStatus enumerates the commercial state of a client.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

// ContractStatus enumerates contract lifecycle states.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusFinished  ContractStatus = "FINISHED"
	ContractStatusSuspended ContractStatus = "SUSPENDED"
)

// Client is a customer organisation.
type Client struct {
	ID                int64
	Name              string
	TaxID             string
	Sector            *string
	RelationshipStart *time.Time
	Status            ClientStatus
	ContractCount     int
	CreatedAt         time.Time
}

// Contract links a client to a supported project.
type Contract struct {
	ID           int64
	ClientID     int64
	ClientName   string
	ProjectName  string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       ContractStatus
	ServiceLevel *string
}

// ClientContext is the read-only snapshot used to bias classification.
type ClientContext struct {
	Name              string
	RelationshipStart *time.Time
	TotalContracts    int
}
