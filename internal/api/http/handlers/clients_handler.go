package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// ClientsHandler manages clients and their summaries.
type ClientsHandler struct {
	service *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{service: clientService}
}

// CreateClient POST /clients.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	start, err := parseDate("relationshipStart", req.RelationshipStart)
	if err != nil {
		return err
	}
	client, err := h.service.CreateClient(c.UserContext(), service.ClientCreateInput{
		Name:              req.Name,
		TaxID:             req.TaxID,
		Sector:            req.Sector,
		RelationshipStart: start,
		Status:            domain.ClientStatus(strings.ToUpper(string(req.Status))),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(clientResponse(client))
}

// ListClients GET /clients.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	filter := repository.ClientFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status := domain.ClientStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	clients, err := h.service.ListClients(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"items": items})
}

// ClientSummary GET /clients/:id/summary.
func (h *ClientsHandler) ClientSummary(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.service.GetClientSummary(c.UserContext(), id)
	if err != nil {
		return err
	}
	recent := make([]dto.RecentTicketResponse, 0, len(summary.RecentTickets))
	for i := range summary.RecentTickets {
		recent = append(recent, recentTicketResponse(&summary.RecentTickets[i]))
	}
	return c.JSON(dto.ClientSummaryResponse{
		Client:            clientResponse(&summary.Client),
		Contracts:         contractResponses(summary.Contracts),
		TotalTickets:      summary.TotalTickets,
		AverageChurnScore: summary.AverageChurnScore,
		PredominantRisk:   summary.PredominantRisk,
		TicketsByRisk:     riskCountResponses(summary.TicketsByRisk),
		RecentTickets:     recent,
	})
}

// ClientByTaxID GET /clients/by-tax-id/:taxId.
func (h *ClientsHandler) ClientByTaxID(c *fiber.Ctx) error {
	result, err := h.service.GetClientByTaxID(c.UserContext(), c.Params("taxId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ClientLookupResponse{
		Client:          clientResponse(&result.Client),
		ActiveContracts: contractResponses(result.ActiveContracts),
	})
}
