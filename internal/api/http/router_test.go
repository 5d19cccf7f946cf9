package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/api/http/handlers"
	"github.com/spec-kit/ticket-insights/internal/auth"
	"github.com/spec-kit/ticket-insights/internal/config"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/observability"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/service"
)

const knownContract = int64(7)

type fakeStore struct {
	repository.Store
	tickets  *fakeTickets
	analyses *fakeAnalyses
}

func (s *fakeStore) Tickets() repository.TicketRepository { return s.tickets }
func (s *fakeStore) Analyses() repository.AnalysisRepository { return s.analyses }
func (s *fakeStore) Clients() repository.ClientRepository { return fakeClients{} }
func (s *fakeStore) Contracts() repository.ContractRepository { return fakeContracts{} }

type fakeTx struct{ store *fakeStore }

func (f fakeTx) WithinTx(ctx context.Context, fn func(context.Context, repository.Store) error) error {
	return fn(ctx, f.store)
}

type fakeTickets struct {
	repository.TicketRepository
	rows []domain.Ticket
}

func (f *fakeTickets) Create(_ context.Context, t *domain.Ticket) error {
	t.ID = int64(len(f.rows) + 1)
	t.CreatedAt = time.Now()
	f.rows = append(f.rows, *t)
	return nil
}

func (f *fakeTickets) UpdateClassification(_ context.Context, t *domain.Ticket, tt domain.TicketType, p domain.TicketPriority) error {
	t.Type = &tt
	t.Priority = &p
	return nil
}

func (f *fakeTickets) ListWithAnalysis(context.Context, repository.TicketFilter) ([]domain.TicketWithAnalysis, error) {
	out := make([]domain.TicketWithAnalysis, 0, len(f.rows))
	for _, t := range f.rows {
		out = append(out, domain.TicketWithAnalysis{Ticket: t})
	}
	return out, nil
}

func (f *fakeTickets) GetDetail(_ context.Context, id int64) (*domain.TicketDetail, error) {
	for _, t := range f.rows {
		if t.ID == id {
			return &domain.TicketDetail{TicketWithAnalysis: domain.TicketWithAnalysis{Ticket: t}}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeAnalyses struct{ count int }

func (f *fakeAnalyses) Create(_ context.Context, a *domain.Analysis) error {
	f.count++
	a.ID = int64(f.count)
	return nil
}

type fakeClients struct{ repository.ClientRepository }

func (fakeClients) ContextForContract(_ context.Context, id int64) (*domain.ClientContext, error) {
	if id != knownContract {
		return nil, pgx.ErrNoRows
	}
	return &domain.ClientContext{Name: "Acme", TotalContracts: 1}, nil
}

func (fakeClients) GetByID(context.Context, int64) (*domain.Client, error) {
	return nil, pgx.ErrNoRows
}

type fakeContracts struct{ repository.ContractRepository }

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("down") }

type upPinger struct{}

func (upPinger) Ping(context.Context) error { return nil }

type testServer struct {
	app    *fiber.App
	store  *fakeStore
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T, authDisabled bool) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := &fakeStore{tickets: &fakeTickets{}, analyses: &fakeAnalyses{}}
	tokens := auth.NewTokenManager("test-secret", 5)

	authService, err := service.NewAuthService(config.AuthConfig{
		OperatorUsername: "admin",
		OperatorPassword: "pw",
		BcryptCost:       4,
	}, tokens)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	ticketService := service.NewTicketService(service.TicketDependencies{
		TxManager:  fakeTx{store: store},
		TicketRepo: store.tickets,
		Metrics:    metrics,
		Logger:     logger,
	})
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:   fakeClients{},
		ContractRepo: fakeContracts{},
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("ticket-insights", "test", upPinger{}, nil, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Clients:        handlers.NewClientsHandler(clientService),
		Contracts:      handlers.NewContractsHandler(clientService),
		Dashboard:      handlers.NewDashboardHandler(service.NewDashboardService(nil, nil, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authDisabled),
	})
	return &testServer{app: app, store: store, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp, decoded
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestCreateTicketEndpoint(t *testing.T) {
	srv := newTestServer(t, true)

	resp, body := srv.do(t, http.MethodPost, "/tickets", map[string]any{
		"contractId":  knownContract,
		"title":       "Caída",
		"description": "El sistema está caído, escribir a ops@example.com",
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	ticket, _ := body["ticket"].(map[string]any)
	analysis, _ := body["analysis"].(map[string]any)
	if ticket == nil || analysis == nil {
		t.Fatalf("response missing ticket or analysis: %v", body)
	}
	if desc, _ := ticket["description"].(string); desc != "El sistema está caído, escribir a [EMAIL_REDACTED]" {
		t.Errorf("description = %q", desc)
	}
	if analysis["hasSensitiveData"] != true {
		t.Errorf("hasSensitiveData = %v, want true", analysis["hasSensitiveData"])
	}
	if body["source"] != "FALLBACK" {
		t.Errorf("source = %v, want FALLBACK", body["source"])
	}
}

func TestCreateTicketEndpointErrors(t *testing.T) {
	srv := newTestServer(t, true)

	resp, body := srv.do(t, http.MethodPost, "/tickets", map[string]any{"title": "only title"}, "")
	if resp.StatusCode != http.StatusBadRequest || errorCode(body) != "VALIDATION_FAILED" {
		t.Errorf("missing fields: status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = srv.do(t, http.MethodPost, "/tickets", map[string]any{
		"contractId": 404, "title": "t", "description": "d",
	}, "")
	if resp.StatusCode != http.StatusNotFound || errorCode(body) != "NOT_FOUND" {
		t.Errorf("unknown contract: status = %d, body %v", resp.StatusCode, body)
	}
	if len(srv.store.tickets.rows) != 0 {
		t.Errorf("tickets stored = %d, want 0", len(srv.store.tickets.rows))
	}
}

func TestListAndGetTickets(t *testing.T) {
	srv := newTestServer(t, true)
	srv.store.tickets.rows = append(srv.store.tickets.rows, domain.Ticket{
		ID: 1, ContractID: knownContract, Title: "Old", Description: "tarjeta 4111111111111111", Status: domain.TicketStatusEntered,
	})

	resp, body := srv.do(t, http.MethodGet, "/tickets?status=entered&limit=10", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", body["items"])
	}
	ticket := items[0].(map[string]any)["ticket"].(map[string]any)
	if ticket["description"] != "tarjeta [NUMBER_REDACTED]" {
		t.Errorf("description = %v", ticket["description"])
	}

	resp, _ = srv.do(t, http.MethodGet, "/tickets/1", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("detail status = %d", resp.StatusCode)
	}
	resp, _ = srv.do(t, http.MethodGet, "/tickets/99", nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing detail status = %d, want 404", resp.StatusCode)
	}
	resp, _ = srv.do(t, http.MethodGet, "/tickets/abc", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", resp.StatusCode)
	}
	resp, _ = srv.do(t, http.MethodGet, "/tickets?contractId=x", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad contractId status = %d, want 400", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, false)

	resp, body := srv.do(t, http.MethodGet, "/tickets", nil, "")
	if resp.StatusCode != http.StatusUnauthorized || errorCode(body) != "UNAUTHORIZED" {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = srv.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "bad"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = srv.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "pw"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body %v", resp.StatusCode, body)
	}
	token, _ := body["accessToken"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	resp, _ = srv.do(t, http.MethodGet, "/tickets", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authorized status = %d", resp.StatusCode)
	}
}

func TestContractForUnknownClient(t *testing.T) {
	srv := newTestServer(t, true)
	resp, body := srv.do(t, http.MethodPost, "/contracts", map[string]any{"clientId": 3, "projectName": "Portal"}, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = srv.do(t, http.MethodPost, "/contracts", map[string]any{"clientId": 3, "projectName": "Portal", "startDate": "yesterday"}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, body %v", resp.StatusCode, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)

	resp, body := srv.do(t, http.MethodGet, "/health/ready", nil, "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("ready: status = %d, body %v", resp.StatusCode, body)
	}
	deps := body["dependencies"].(map[string]any)
	if deps["redis"] != "disabled" {
		t.Errorf("redis = %v, want disabled", deps["redis"])
	}

	resp, body = srv.do(t, http.MethodGet, "/metrics", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	if _, ok := body["requests"]; !ok {
		t.Errorf("metrics body missing requests: %v", body)
	}

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	h := handlers.NewHealthHandler("svc", "v", downPinger{}, nil, nil)
	app.Get("/ready", h.Ready)
	r, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if r.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("down postgres status = %d, want 503", r.StatusCode)
	}
}

func TestPanicIsRenderedAsInternalError(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestDeadlineIsRenderedAsGatewayTimeout(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, time.Millisecond)
	app.Get("/slow", func(c *fiber.Ctx) error {
		<-c.UserContext().Done()
		return c.UserContext().Err()
	})

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	req.Header.Set(observability.RequestIDHeader, "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "REQUEST_TIMEOUT" || body.Error.RequestID != "req-42" {
		t.Errorf("error body = %+v", body.Error)
	}
}
