package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
)

// memDB is an in-memory stand-in for Postgres. Writes made through
// stagingTx land on a copy that is only kept when the unit of work succeeds.
type memDB struct {
	nextID    int64
	clients   map[int64]domain.Client
	contracts map[int64]domain.Contract
	tickets   []domain.Ticket
	analyses  []domain.Analysis

	failAnalysisInsert error
	failTicketUpdate   error
}

func newMemDB() *memDB {
	return &memDB{
		clients:   map[int64]domain.Client{},
		contracts: map[int64]domain.Contract{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) clone() *memDB {
	cp := *db
	cp.clients = make(map[int64]domain.Client, len(db.clients))
	for k, v := range db.clients {
		cp.clients[k] = v
	}
	cp.contracts = make(map[int64]domain.Contract, len(db.contracts))
	for k, v := range db.contracts {
		cp.contracts[k] = v
	}
	cp.tickets = append([]domain.Ticket(nil), db.tickets...)
	cp.analyses = append([]domain.Analysis(nil), db.analyses...)
	return &cp
}

func (db *memDB) seedClient(name, taxID string, start *time.Time) domain.Client {
	c := domain.Client{ID: db.id(), Name: name, TaxID: taxID, RelationshipStart: start, Status: domain.ClientStatusActive}
	db.clients[c.ID] = c
	return c
}

func (db *memDB) seedContract(clientID int64, project string, status domain.ContractStatus) domain.Contract {
	c := domain.Contract{ID: db.id(), ClientID: clientID, ClientName: db.clients[clientID].Name, ProjectName: project, Status: status}
	db.contracts[c.ID] = c
	return c
}

func (db *memDB) Tickets() repository.TicketRepository { return memTickets{db} }
func (db *memDB) Analyses() repository.AnalysisRepository { return memAnalyses{db} }
func (db *memDB) Clients() repository.ClientRepository { return memClients{db} }
func (db *memDB) Contracts() repository.ContractRepository { return memContracts{db} }
func (db *memDB) Dashboard() repository.DashboardRepository {
	return &stubDashboard{}
}

type stagingTx struct {
	db *memDB
}

func (m *stagingTx) WithinTx(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	staged := m.db.clone()
	if err := fn(ctx, staged); err != nil {
		return err
	}
	*m.db = *staged
	return nil
}

type memTickets struct{ db *memDB }

func (r memTickets) Create(ctx context.Context, t *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.ID = r.db.id()
	t.CreatedAt = time.Now()
	r.db.tickets = append(r.db.tickets, *t)
	return nil
}

func (r memTickets) UpdateClassification(ctx context.Context, t *domain.Ticket, tt domain.TicketType, p domain.TicketPriority) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db.failTicketUpdate != nil {
		return r.db.failTicketUpdate
	}
	for i := range r.db.tickets {
		if r.db.tickets[i].ID == t.ID {
			r.db.tickets[i].Type = &tt
			r.db.tickets[i].Priority = &p
			t.Type = &tt
			t.Priority = &p
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r memTickets) analysisFor(id int64) *domain.Analysis {
	for _, a := range r.db.analyses {
		if a.TicketID == id {
			cp := a
			return &cp
		}
	}
	return nil
}

func (r memTickets) GetDetail(_ context.Context, id int64) (*domain.TicketDetail, error) {
	for _, t := range r.db.tickets {
		if t.ID == id {
			return &domain.TicketDetail{TicketWithAnalysis: domain.TicketWithAnalysis{Ticket: t, Analysis: r.analysisFor(id)}}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memTickets) ListWithAnalysis(_ context.Context, f repository.TicketFilter) ([]domain.TicketWithAnalysis, error) {
	var out []domain.TicketWithAnalysis
	for i := len(r.db.tickets) - 1; i >= 0; i-- {
		t := r.db.tickets[i]
		if f.ContractID != nil && t.ContractID != *f.ContractID {
			continue
		}
		out = append(out, domain.TicketWithAnalysis{Ticket: t, Analysis: r.analysisFor(t.ID)})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type memAnalyses struct{ db *memDB }

func (r memAnalyses) Create(ctx context.Context, a *domain.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db.failAnalysisInsert != nil {
		return r.db.failAnalysisInsert
	}
	a.ID = r.db.id()
	a.AnalyzedAt = time.Now()
	r.db.analyses = append(r.db.analyses, *a)
	return nil
}

type memClients struct{ db *memDB }

func (r memClients) Create(_ context.Context, c *domain.Client) error {
	for _, existing := range r.db.clients {
		if existing.TaxID == c.TaxID {
			return errors.New("duplicate tax id")
		}
	}
	c.ID = r.db.id()
	r.db.clients[c.ID] = *c
	return nil
}

func (r memClients) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	c, ok := r.db.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r memClients) GetByTaxID(_ context.Context, taxID string) (*domain.Client, error) {
	for _, c := range r.db.clients {
		if c.TaxID == taxID {
			cp := c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memClients) List(context.Context, repository.ClientFilter) ([]domain.Client, error) {
	var out []domain.Client
	for _, c := range r.db.clients {
		out = append(out, c)
	}
	return out, nil
}

func (r memClients) ContextForContract(ctx context.Context, contractID int64) (*domain.ClientContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contract, ok := r.db.contracts[contractID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	client, ok := r.db.clients[contract.ClientID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	total := 0
	for _, c := range r.db.contracts {
		if c.ClientID == client.ID {
			total++
		}
	}
	return &domain.ClientContext{Name: client.Name, RelationshipStart: client.RelationshipStart, TotalContracts: total}, nil
}

type memContracts struct{ db *memDB }

func (r memContracts) Create(_ context.Context, c *domain.Contract) error {
	c.ID = r.db.id()
	c.ClientName = r.db.clients[c.ClientID].Name
	r.db.contracts[c.ID] = *c
	return nil
}

func (r memContracts) List(_ context.Context, f repository.ContractFilter) ([]domain.Contract, error) {
	var out []domain.Contract
	for _, c := range r.db.contracts {
		if f.ClientID != nil && c.ClientID != *f.ClientID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type stubDashboard struct {
	top       []domain.TopClient
	risks     []domain.RiskCount
	sentiment []domain.SentimentCount
	totals    repository.GlobalTotals
	aggregate repository.ClientAggregate
	recent    []domain.RecentTicket
	calls     int
	since     time.Time
}

func (s *stubDashboard) TopClients(_ context.Context, since time.Time, _ int) ([]domain.TopClient, error) {
	s.calls++
	s.since = since
	return s.top, nil
}

func (s *stubDashboard) RiskBreakdown(context.Context, *int64) ([]domain.RiskCount, error) {
	return s.risks, nil
}

func (s *stubDashboard) SentimentBreakdown(context.Context) ([]domain.SentimentCount, error) {
	return s.sentiment, nil
}

func (s *stubDashboard) Totals(context.Context) (repository.GlobalTotals, error) {
	return s.totals, nil
}

func (s *stubDashboard) ClientAggregate(context.Context, int64) (repository.ClientAggregate, error) {
	return s.aggregate, nil
}

func (s *stubDashboard) RecentTickets(context.Context, int64, int) ([]domain.RecentTicket, error) {
	return append([]domain.RecentTicket(nil), s.recent...), nil
}

// stubRemote answers with result/err. With hang set it blocks until the
// context ends, like a completion endpoint that never responds.
type stubRemote struct {
	result domain.AnalysisResult
	err    error
	hang   bool
	calls  int
	text   string
	cc     domain.ClientContext
}

func (s *stubRemote) Classify(ctx context.Context, text string, cc domain.ClientContext) (domain.AnalysisResult, error) {
	s.calls++
	s.text = text
	s.cc = cc
	if s.hang {
		<-ctx.Done()
		return domain.AnalysisResult{}, ctx.Err()
	}
	return s.result, s.err
}
