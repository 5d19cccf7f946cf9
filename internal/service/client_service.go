package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/security"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

const (
	recentTicketsLimit = 20
	uniqueViolation    = "23505"
)

// ClientService manages clients, contracts and per-client summaries.
type ClientService struct {
	clients   repository.ClientRepository
	contracts repository.ContractRepository
	dashboard repository.DashboardRepository
}

// ClientDependencies bundles repositories for the client service.
type ClientDependencies struct {
	ClientRepo    repository.ClientRepository
	ContractRepo  repository.ContractRepository
	DashboardRepo repository.DashboardRepository
}

// ClientCreateInput describes client creation payload.
type ClientCreateInput struct {
	Name              string
	TaxID             string
	Sector            *string
	RelationshipStart *time.Time
	Status            domain.ClientStatus
}

// ContractCreateInput describes contract creation payload.
type ContractCreateInput struct {
	ClientID     int64
	ProjectName  string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       domain.ContractStatus
	ServiceLevel *string
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	return &ClientService{
		clients:   deps.ClientRepo,
		contracts: deps.ContractRepo,
		dashboard: deps.DashboardRepo,
	}
}

// CreateClient registers a client. Tax ids are unique.
func (s *ClientService) CreateClient(ctx context.Context, input ClientCreateInput) (*domain.Client, error) {
	client := &domain.Client{
		Name:              strings.TrimSpace(input.Name),
		TaxID:             strings.TrimSpace(input.TaxID),
		Sector:            trimOptional(input.Sector),
		RelationshipStart: input.RelationshipStart,
		Status:            input.Status,
	}
	if client.Status == "" {
		client.Status = domain.ClientStatusActive
	}

	details := map[string]any{}
	if client.Name == "" {
		details["name"] = "required"
	}
	if client.TaxID == "" {
		details["taxId"] = "required"
	}
	if client.Status != domain.ClientStatusActive && client.Status != domain.ClientStatusInactive {
		details["status"] = "must be ACTIVE or INACTIVE"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid client", details)
	}

	if err := s.clients.Create(ctx, client); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflict("a client with this tax id already exists", map[string]any{"taxId": client.TaxID})
		}
		return nil, err
	}
	return client, nil
}

// ListClients returns clients ordered by name.
func (s *ClientService) ListClients(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// GetClientSummary aggregates a client's contracts and analysed tickets.
func (s *ClientService) GetClientSummary(ctx context.Context, clientID int64) (*domain.ClientSummary, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, clientLookupError(err, map[string]any{"clientId": clientID})
	}

	contracts, err := s.contracts.List(ctx, repository.ContractFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}
	agg, err := s.dashboard.ClientAggregate(ctx, clientID)
	if err != nil {
		return nil, err
	}
	byRisk, err := s.dashboard.RiskBreakdown(ctx, &clientID)
	if err != nil {
		return nil, err
	}
	recent, err := s.dashboard.RecentTickets(ctx, clientID, recentTicketsLimit)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		redactRecent(&recent[i])
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}

	return &domain.ClientSummary{
		Client:            *client,
		Contracts:         contracts,
		TotalTickets:      agg.TotalTickets,
		AverageChurnScore: agg.AverageChurnScore,
		PredominantRisk:   agg.PredominantRisk,
		TicketsByRisk:     byRisk,
		RecentTickets:     recent,
	}, nil
}

// GetClientByTaxID returns the client and its active contracts.
func (s *ClientService) GetClientByTaxID(ctx context.Context, taxID string) (*domain.ClientWithActiveContracts, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil, apperrors.NewValidationError("taxId is required", nil)
	}
	client, err := s.clients.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, clientLookupError(err, map[string]any{"taxId": taxID})
	}
	active := domain.ContractStatusActive
	contracts, err := s.contracts.List(ctx, repository.ContractFilter{ClientID: &client.ID, Status: &active})
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return &domain.ClientWithActiveContracts{Client: *client, ActiveContracts: contracts}, nil
}

// CreateContract attaches a new contract to an existing client.
func (s *ClientService) CreateContract(ctx context.Context, input ContractCreateInput) (*domain.Contract, error) {
	contract := &domain.Contract{
		ClientID:     input.ClientID,
		ProjectName:  strings.TrimSpace(input.ProjectName),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Status:       input.Status,
		ServiceLevel: trimOptional(input.ServiceLevel),
	}
	if contract.Status == "" {
		contract.Status = domain.ContractStatusActive
	}

	details := map[string]any{}
	if contract.ClientID <= 0 {
		details["clientId"] = "required"
	}
	if contract.ProjectName == "" {
		details["projectName"] = "required"
	}
	switch contract.Status {
	case domain.ContractStatusActive, domain.ContractStatusFinished, domain.ContractStatusSuspended:
	default:
		details["status"] = "must be ACTIVE, FINISHED or SUSPENDED"
	}
	if contract.StartDate != nil && contract.EndDate != nil && contract.EndDate.Before(*contract.StartDate) {
		details["endDate"] = "must not be before startDate"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid contract", details)
	}

	if _, err := s.clients.GetByID(ctx, contract.ClientID); err != nil {
		return nil, clientLookupError(err, map[string]any{"clientId": contract.ClientID})
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// ListContracts returns contracts with their client names.
func (s *ClientService) ListContracts(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	contracts, err := s.contracts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return contracts, nil
}

func clientLookupError(err error, details map[string]any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Wrap(apperrors.NewNotFound("client", details), ErrClientNotFound)
	}
	return err
}

func redactRecent(rt *domain.RecentTicket) {
	pre := security.Preprocess(rt.Description)
	rt.Description = pre.Anonymized
	rt.HasSensitiveData = rt.HasSensitiveData || pre.HasSensitiveData
	rt.IsPotentialPhishing = rt.IsPotentialPhishing || pre.IsSuspectedPhishing
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
