package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/classifier"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/observability"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/security"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

const (
	defaultTicketLimit = 100
	maxTicketLimit     = 500

	// maxWriteReserve caps the part of a request deadline kept back from the
	// classifier for the inserts that follow it.
	maxWriteReserve = 2 * time.Second
)

// TicketService runs ticket intake and the redacted read paths.
type TicketService struct {
	tx         repository.TxManager
	tickets    repository.TicketRepository
	resolver   *classifier.Resolver
	classifyIn time.Duration
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TxManager  repository.TxManager
	TicketRepo repository.TicketRepository
	Resolver   *classifier.Resolver
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger

	// ClassifyTimeout bounds the remote call; zero leaves only the request deadline.
	ClassifyTimeout time.Duration
}

// TicketListFilter describes listing filters accepted from callers.
type TicketListFilter struct {
	ContractID *int64
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	ChurnRisks []domain.ChurnRisk
	Limit      int
	Offset     int
}

// IntakeResult is returned by CreateTicketWithAnalysis.
type IntakeResult struct {
	Ticket        domain.Ticket
	Analysis      domain.Analysis
	ClientContext domain.ClientContext
	Source        classifier.Source
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = classifier.NewResolver(nil)
	}
	return &TicketService{
		tx:         deps.TxManager,
		tickets:    deps.TicketRepo,
		resolver:   resolver,
		classifyIn: deps.ClassifyTimeout,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// CreateTicketWithAnalysis stores a ticket together with exactly one analysis.
// The context lookup, both inserts and the classification back-fill share one
// transaction; on any error nothing is persisted. A failing remote classifier
// is absorbed by the local fallback and never fails the call.
func (s *TicketService) CreateTicketWithAnalysis(ctx context.Context, input domain.TicketInput) (*IntakeResult, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateTicketInput(input); err != nil {
		return nil, err
	}

	pre := security.Preprocess(input.Description)
	status := domain.TicketStatusEntered
	if pre.IsSuspectedPhishing {
		status = domain.TicketStatusBlockedBySecurity
	}

	var result IntakeResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store repository.Store) error {
		cc, err := store.Clients().ContextForContract(ctx, input.ContractID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.Wrap(
					apperrors.NewNotFound("contract", map[string]any{"contractId": input.ContractID}),
					ErrContractNotFound,
				)
			}
			return err
		}

		ticket := domain.Ticket{
			ContractID:  input.ContractID,
			Title:       input.Title,
			Description: input.Description,
			Status:      status,
		}
		if err := store.Tickets().Create(ctx, &ticket); err != nil {
			return err
		}

		classifyCtx, cancel := classificationContext(ctx, s.classifyIn)
		outcome := s.resolver.Resolve(classifyCtx, pre.Anonymized, *cc)
		cancel()
		s.metrics.RecordClassification(string(outcome.Source))
		if outcome.UsedFallback() {
			s.logger.Warn("remote classification failed, using local fallback",
				zap.Int64("ticket_id", ticket.ID),
				zap.Error(outcome.RemoteErr))
		}

		analysis := domain.Analysis{
			TicketID:       ticket.ID,
			AnalysisResult: outcome.Result.WithSecurityFlags(pre.HasSensitiveData, pre.IsSuspectedPhishing),
		}
		if err := store.Analyses().Create(ctx, &analysis); err != nil {
			return err
		}
		if err := store.Tickets().UpdateClassification(ctx, &ticket, analysis.TicketType, analysis.TicketPriority); err != nil {
			return err
		}

		result = IntakeResult{Ticket: ticket, Analysis: analysis, ClientContext: *cc, Source: outcome.Source}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket analysed",
		zap.Int64("ticket_id", result.Ticket.ID),
		zap.Int64("contract_id", result.Ticket.ContractID),
		zap.String("status", string(result.Ticket.Status)),
		zap.String("source", string(result.Source)),
		zap.Int("churn_score", result.Analysis.ChurnScore))

	s.publishAnalyzed(ctx, &result)

	result.Ticket.Description = pre.Anonymized
	return &result, nil
}

// classificationContext gives the classifier at most limit and never more than
// the request deadline minus a reserve for the writes. The reserve is a quarter
// of the remaining time, capped at maxWriteReserve.
func classificationContext(ctx context.Context, limit time.Duration) (context.Context, context.CancelFunc) {
	budget := limit
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		reserve := min(remaining/4, maxWriteReserve)
		if avail := remaining - reserve; budget <= 0 || avail < budget {
			budget = max(avail, 0)
		}
		return context.WithTimeout(ctx, budget)
	}
	if budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, budget)
}

// ListTickets returns tickets with their analyses. Descriptions are
// re-redacted and security flags re-derived on every read.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.TicketWithAnalysis, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTicketLimit
	}
	if limit > maxTicketLimit {
		limit = maxTicketLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := s.tickets.ListWithAnalysis(ctx, repository.TicketFilter{
		ContractID: filter.ContractID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		ChurnRisks: filter.ChurnRisks,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	for i := range items {
		redactTicket(&items[i])
	}
	if items == nil {
		items = []domain.TicketWithAnalysis{}
	}
	return items, nil
}

// GetTicketDetail returns one redacted ticket with its contract and client labels.
func (s *TicketService) GetTicketDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	detail, err := s.tickets.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(
				apperrors.NewNotFound("ticket", map[string]any{"ticketId": id}),
				ErrTicketNotFound,
			)
		}
		return nil, err
	}
	redactTicket(&detail.TicketWithAnalysis)
	return detail, nil
}

// redactTicket replaces the stored description with its anonymized form and
// OR-merges the freshly computed flags into the stored analysis.
func redactTicket(item *domain.TicketWithAnalysis) {
	pre := security.Preprocess(item.Ticket.Description)
	item.Ticket.Description = pre.Anonymized
	if item.Analysis != nil {
		item.Analysis.AnalysisResult = item.Analysis.AnalysisResult.WithSecurityFlags(pre.HasSensitiveData, pre.IsSuspectedPhishing)
	}
}

func validateTicketInput(input domain.TicketInput) error {
	details := map[string]any{}
	if input.ContractID <= 0 {
		details["contractId"] = "required"
	}
	if input.Title == "" {
		details["title"] = "required"
	}
	if input.Description == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("contractId, title and description are required", details)
	}
	return nil
}

func (s *TicketService) publishAnalyzed(ctx context.Context, result *IntakeResult) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAnalyzed,
		TicketID:  result.Ticket.ID,
		Timestamp: time.Now(),
		Payload: events.TicketAnalyzedPayload{
			ContractID: result.Ticket.ContractID,
			Status:     result.Ticket.Status,
			ChurnScore: result.Analysis.ChurnScore,
			ChurnRisk:  result.Analysis.ChurnRisk,
			Priority:   result.Analysis.TicketPriority,
			Phishing:   result.Analysis.IsPotentialPhishing,
			Sensitive:  result.Analysis.HasSensitiveData,
			Source:     string(result.Source),
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("ticket_analyzed subscribers failed", zap.Int64("ticket_id", result.Ticket.ID), zap.Error(err))
	}
}
