package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-insights/internal/api/dto"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/service"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// ContractsHandler manages contracts.
type ContractsHandler struct {
	service *service.ClientService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(clientService *service.ClientService) *ContractsHandler {
	return &ContractsHandler{service: clientService}
}

// CreateContract POST /contracts.
func (h *ContractsHandler) CreateContract(c *fiber.Ctx) error {
	var req dto.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return err
	}
	contract, err := h.service.CreateContract(c.UserContext(), service.ContractCreateInput{
		ClientID:     req.ClientID,
		ProjectName:  req.ProjectName,
		StartDate:    start,
		EndDate:      end,
		Status:       domain.ContractStatus(strings.ToUpper(string(req.Status))),
		ServiceLevel: req.ServiceLevel,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(contractResponse(contract))
}

// ListContracts GET /contracts.
func (h *ContractsHandler) ListContracts(c *fiber.Ctx) error {
	var filter repository.ContractFilter
	if raw := c.Query("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return apperrors.NewValidationError("clientId must be a positive integer", map[string]any{"clientId": raw})
		}
		filter.ClientID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.ContractStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	contracts, err := h.service.ListContracts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": contractResponses(contracts)})
}
