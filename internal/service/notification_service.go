package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/config"
	"github.com/spec-kit/ticket-insights/internal/events"
)

// NotificationService raises alerts for analysed tickets that need attention.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAnalyzed, n.handleTicketAnalyzed)
}

func (n *NotificationService) handleTicketAnalyzed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAnalyzedPayload)
	if !ok {
		n.logger.Debug("ignoring ticket_analyzed event without payload", zap.String("event_id", event.ID))
		return nil
	}

	var reasons []string
	if n.cfg.ChurnAlertThreshold > 0 && payload.ChurnScore >= n.cfg.ChurnAlertThreshold {
		reasons = append(reasons, "churn_risk")
	}
	if payload.Phishing {
		reasons = append(reasons, "phishing")
	}
	if payload.Sensitive {
		reasons = append(reasons, "sensitive_data")
	}
	if len(reasons) == 0 {
		return nil
	}

	n.logger.Warn("ticket requires attention",
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("contract_id", payload.ContractID),
		zap.Strings("reasons", reasons),
		zap.Int("churn_score", payload.ChurnScore),
		zap.String("churn_risk", string(payload.ChurnRisk)),
		zap.String("status", string(payload.Status)))
	return nil
}
