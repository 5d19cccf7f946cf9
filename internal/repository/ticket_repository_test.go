package repository

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

func TestTicketListQuery(t *testing.T) {
	contractID := int64(7)
	clientID := int64(3)

	cases := []struct {
		name       string
		filter     TicketFilter
		wantTail   string
		wantArgs   []any
		wantClient bool
	}{
		{
			name:     "no filters",
			filter:   TicketFilter{Limit: 100},
			wantTail: "LEFT JOIN ticket_analyses a ON a.ticket_id = t.id ORDER BY t.created_at DESC, t.id DESC LIMIT 100",
			wantArgs: nil,
		},
		{
			name: "status and priority",
			filter: TicketFilter{
				Statuses:   []domain.TicketStatus{domain.TicketStatusEntered, domain.TicketStatusBlockedBySecurity},
				Priorities: []domain.TicketPriority{domain.TicketPriorityHigh},
				Limit:      50,
			},
			wantTail: "WHERE t.status IN ($1,$2) AND t.priority IN ($3) ORDER BY t.created_at DESC, t.id DESC LIMIT 50",
			wantArgs: []any{"ENTERED", "BLOCKED_BY_SECURITY", "HIGH"},
		},
		{
			name: "churn risk only",
			filter: TicketFilter{
				ChurnRisks: []domain.ChurnRisk{domain.ChurnRiskHigh, domain.ChurnRiskMedium},
			},
			wantTail: "WHERE a.churn_risk IN ($1,$2) ORDER BY t.created_at DESC, t.id DESC",
			wantArgs: []any{"HIGH", "MEDIUM"},
		},
		{
			name: "every filter",
			filter: TicketFilter{
				ContractID: &contractID,
				ClientID:   &clientID,
				Statuses:   []domain.TicketStatus{domain.TicketStatusEntered},
				Priorities: []domain.TicketPriority{domain.TicketPriorityCritical, domain.TicketPriorityHigh},
				ChurnRisks: []domain.ChurnRisk{domain.ChurnRiskHigh},
				Limit:      10,
				Offset:     20,
			},
			wantTail: "JOIN contracts c ON c.id = t.contract_id " +
				"WHERE t.contract_id = $1 AND c.client_id = $2 AND t.status IN ($3) " +
				"AND t.priority IN ($4,$5) AND a.churn_risk IN ($6) " +
				"ORDER BY t.created_at DESC, t.id DESC LIMIT 10 OFFSET 20",
			wantArgs:   []any{int64(7), int64(3), "ENTERED", "CRITICAL", "HIGH", "HIGH"},
			wantClient: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := ticketListQuery(tc.filter).ToSql()
			if err != nil {
				t.Fatalf("ToSql: %v", err)
			}
			if !strings.HasPrefix(query, "SELECT "+ticketColumns) {
				t.Errorf("query does not start with ticket columns: %q", query)
			}
			if !strings.HasSuffix(query, tc.wantTail) {
				t.Errorf("query = %q\nwant suffix %q", query, tc.wantTail)
			}
			if got := strings.Contains(query, "JOIN contracts c"); got != tc.wantClient {
				t.Errorf("contracts join present = %v, want %v", got, tc.wantClient)
			}
			if strings.Contains(query, "?") {
				t.Errorf("query kept ? placeholders: %q", query)
			}
			if len(args) == 0 && len(tc.wantArgs) == 0 {
				return
			}
			if !reflect.DeepEqual(args, tc.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tc.wantArgs)
			}
		})
	}
}
