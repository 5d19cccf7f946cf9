package classifier

import (
	"strings"
	"testing"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

func TestFallbackOutageTicket(t *testing.T) {
	t.Parallel()

	got := Fallback{}.Classify("El sistema está caído, no podemos operar y estamos perdiendo dinero")
	if got.Sentiment != domain.SentimentNegative {
		t.Fatalf("Sentiment = %s, want NEGATIVE", got.Sentiment)
	}
	if got.ChurnScore < 40 {
		t.Fatalf("ChurnScore = %d, want >= 40", got.ChurnScore)
	}
	if got.ChurnRisk != domain.ChurnRiskHigh && got.ChurnRisk != domain.ChurnRiskMedium {
		t.Fatalf("ChurnRisk = %s, want HIGH or MEDIUM", got.ChurnRisk)
	}
	if got.TicketPriority != domain.TicketPriorityCritical {
		t.Fatalf("TicketPriority = %s, want CRITICAL", got.TicketPriority)
	}
}

func TestFallbackGratefulTicket(t *testing.T) {
	t.Parallel()

	got := Fallback{}.Classify("Muchas gracias, el soporte fue excelente")
	if got.Sentiment != domain.SentimentPositive {
		t.Fatalf("Sentiment = %s, want POSITIVE", got.Sentiment)
	}
	if got.TicketPriority != domain.TicketPriorityMedium {
		t.Fatalf("TicketPriority = %s, want MEDIUM", got.TicketPriority)
	}
	if got.ChurnScore > 25 {
		t.Fatalf("ChurnScore = %d, want <= 25", got.ChurnScore)
	}
	if got.Frustration != domain.FrustrationLow {
		t.Fatalf("Frustration = %s, want LOW", got.Frustration)
	}
}

func TestFallbackRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		text        string
		frustration domain.Frustration
		score       int
		priority    domain.TicketPriority
		ticketType  domain.TicketType
		phishing    bool
		sensitive   bool
	}{
		{
			name:        "empty",
			text:        "",
			frustration: domain.FrustrationLow,
			score:       20,
			priority:    domain.TicketPriorityMedium,
			ticketType:  domain.TicketTypeCorrective,
		},
		{
			name:        "unacceptable raises frustration",
			text:        "Es inaceptable, llevo esperando una semana",
			frustration: domain.FrustrationHigh,
			score:       95,
			priority:    domain.TicketPriorityMedium,
			ticketType:  domain.TicketTypeCorrective,
		},
		{
			name:        "urgent enhancement",
			text:        "Necesitamos una mejora urgente en el reporte",
			frustration: domain.FrustrationMedium,
			score:       80,
			priority:    domain.TicketPriorityHigh,
			ticketType:  domain.TicketTypeEvolutive,
		},
		{
			name:        "loose phishing and sensitive checks",
			text:        "Ingrese su usuario en https://portal.example.com",
			frustration: domain.FrustrationLow,
			score:       30,
			priority:    domain.TicketPriorityMedium,
			ticketType:  domain.TicketTypeCorrective,
			phishing:    true,
			sensitive:   true,
		},
		{
			name:        "cancellation clamps at 100",
			text:        "Inaceptable, frustrado y molesto: vamos a cancelar el contrato",
			frustration: domain.FrustrationHigh,
			score:       100,
			priority:    domain.TicketPriorityMedium,
			ticketType:  domain.TicketTypeCorrective,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Fallback{}.Classify(tc.text)
			if got.Frustration != tc.frustration {
				t.Errorf("Frustration = %s, want %s", got.Frustration, tc.frustration)
			}
			if got.ChurnScore != tc.score {
				t.Errorf("ChurnScore = %d, want %d", got.ChurnScore, tc.score)
			}
			if got.TicketPriority != tc.priority {
				t.Errorf("TicketPriority = %s, want %s", got.TicketPriority, tc.priority)
			}
			if got.TicketType != tc.ticketType {
				t.Errorf("TicketType = %s, want %s", got.TicketType, tc.ticketType)
			}
			if got.IsPotentialPhishing != tc.phishing || got.HasSensitiveData != tc.sensitive {
				t.Errorf("flags = (%v,%v), want (%v,%v)", got.IsPotentialPhishing, got.HasSensitiveData, tc.phishing, tc.sensitive)
			}
			if !strings.HasPrefix(got.Recommendations, fallbackPrefix) {
				t.Errorf("Recommendations = %q", got.Recommendations)
			}
		})
	}
}

func TestFallbackScoreAndRiskAgree(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		"hola",
		"gracias",
		"no funciona",
		"inaceptable, no funciona, cancelar el contrato, clave, https://x.io",
		"estamos satisfechos pero el sistema sigue igual",
		"Thanks, works well",
		"verificar cuenta password urgente caído",
	}
	for _, text := range texts {
		got := Fallback{}.Classify(text)
		if got.ChurnScore < 0 || got.ChurnScore > 100 {
			t.Fatalf("%q: ChurnScore %d out of range", text, got.ChurnScore)
		}
		var want domain.ChurnRisk
		switch {
		case got.ChurnScore >= 70:
			want = domain.ChurnRiskHigh
		case got.ChurnScore >= 40:
			want = domain.ChurnRiskMedium
		default:
			want = domain.ChurnRiskLow
		}
		if got.ChurnRisk != want {
			t.Fatalf("%q: ChurnRisk = %s for score %d, want %s", text, got.ChurnRisk, got.ChurnScore, want)
		}
	}
}

func TestFallbackRecommendationWarnings(t *testing.T) {
	t.Parallel()

	got := Fallback{}.Classify("verificar cuenta con mi contraseña")
	if !strings.Contains(got.Recommendations, "phishing") {
		t.Errorf("missing phishing warning: %q", got.Recommendations)
	}
	if !strings.Contains(got.Recommendations, "sensitive data") {
		t.Errorf("missing sensitive data warning: %q", got.Recommendations)
	}
}
