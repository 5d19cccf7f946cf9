package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// TicketsHandler exposes ticket intake and the redacted read endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.CreateTicketWithAnalysis(c.UserContext(), domain.TicketInput{
		ContractID:  req.ContractID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateTicketResponse{
		Ticket:   ticketResponse(&result.Ticket),
		Analysis: analysisResponse(&result.Analysis),
		Source:   string(result.Source),
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketWithAnalysisResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketWithAnalysisResponse(&tickets[i]))
	}
	return c.JSON(dto.TicketListResponse{Items: items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.GetTicketDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.TicketDetailResponse{
		TicketWithAnalysisResponse: ticketWithAnalysisResponse(&detail.TicketWithAnalysis),
		ContractName:               detail.ContractName,
		ClientName:                 detail.ClientName,
		ClientTaxID:                detail.ClientTaxID,
	})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{
		Statuses:   splitEnum[domain.TicketStatus](c.Query("status")),
		Priorities: splitEnum[domain.TicketPriority](c.Query("priority")),
		ChurnRisks: splitEnum[domain.ChurnRisk](c.Query("churnRisk")),
		Limit:      parseInt(c.Query("limit"), 0),
		Offset:     parseInt(c.Query("offset"), 0),
	}
	if raw := c.Query("contractId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, apperrors.NewValidationError("contractId must be a positive integer", map[string]any{"contractId": raw})
		}
		filter.ContractID = &id
	}
	return filter, nil
}

func splitEnum[T ~string](raw string) []T {
	if raw == "" {
		return nil
	}
	var out []T
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, T(part))
		}
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name+" must be a positive integer", map[string]any{name: raw})
	}
	return id, nil
}
