package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

type rawAnalysis struct {
	Sentiment           string          `json:"sentiment"`
	Frustration         string          `json:"frustration"`
	ChurnScore          json.RawMessage `json:"churnScore"`
	ChurnRisk           string          `json:"churnRisk"`
	IsPotentialPhishing bool            `json:"isPotentialPhishing"`
	HasSensitiveData    bool            `json:"hasSensitiveData"`
	TicketType          string          `json:"ticketType"`
	TicketPriority      string          `json:"ticketPriority"`
	Recommendations     string          `json:"recommendations"`
}

var (
	sentiments = map[string]domain.Sentiment{
		"POSITIVE": domain.SentimentPositive,
		"POSITIVO": domain.SentimentPositive,
		"NEUTRAL":  domain.SentimentNeutral,
		"NEUTRO":   domain.SentimentNeutral,
		"NEGATIVE": domain.SentimentNegative,
		"NEGATIVO": domain.SentimentNegative,
	}
	frustrations = map[string]domain.Frustration{
		"LOW":    domain.FrustrationLow,
		"BAJA":   domain.FrustrationLow,
		"MEDIUM": domain.FrustrationMedium,
		"MEDIA":  domain.FrustrationMedium,
		"HIGH":   domain.FrustrationHigh,
		"ALTA":   domain.FrustrationHigh,
	}
	risks = map[string]domain.ChurnRisk{
		"LOW":    domain.ChurnRiskLow,
		"BAJO":   domain.ChurnRiskLow,
		"MEDIUM": domain.ChurnRiskMedium,
		"MEDIO":  domain.ChurnRiskMedium,
		"HIGH":   domain.ChurnRiskHigh,
		"ALTO":   domain.ChurnRiskHigh,
	}
	ticketTypes = map[string]domain.TicketType{
		"CORRECTIVE": domain.TicketTypeCorrective,
		"CORRECTIVO": domain.TicketTypeCorrective,
		"EVOLUTIVE":  domain.TicketTypeEvolutive,
		"EVOLUTIVO":  domain.TicketTypeEvolutive,
		"OTHER":      domain.TicketTypeOther,
		"OTRO":       domain.TicketTypeOther,
	}
	priorities = map[string]domain.TicketPriority{
		"LOW":      domain.TicketPriorityLow,
		"BAJA":     domain.TicketPriorityLow,
		"MEDIUM":   domain.TicketPriorityMedium,
		"MEDIA":    domain.TicketPriorityMedium,
		"HIGH":     domain.TicketPriorityHigh,
		"ALTA":     domain.TicketPriorityHigh,
		"CRITICAL": domain.TicketPriorityCritical,
		"CRITICA":  domain.TicketPriorityCritical,
		"CRÍTICA":  domain.TicketPriorityCritical,
	}
)

// ParseAnalysis extracts the analysis object from a model reply. Code fences
// and commentary around the outermost braces are tolerated.
func ParseAnalysis(reply string) (domain.AnalysisResult, error) {
	body := stripCodeFence(strings.TrimSpace(reply))
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return domain.AnalysisResult{}, fmt.Errorf("%w: no JSON object in reply", ErrInvalidResponse)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(body[start:end+1]), &raw); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	score := domain.ClampChurnScore(coerceScore(raw.ChurnScore))

	sentiment, err := normalize("sentiment", raw.Sentiment, sentiments)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	frustration, err := normalize("frustration", raw.Frustration, frustrations)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	risk := domain.RiskForScore(score)
	if strings.TrimSpace(raw.ChurnRisk) != "" {
		if risk, err = normalize("churnRisk", raw.ChurnRisk, risks); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	ticketType, err := normalize("ticketType", raw.TicketType, ticketTypes)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	priority, err := normalize("ticketPriority", raw.TicketPriority, priorities)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	return domain.AnalysisResult{
		Sentiment:           sentiment,
		Frustration:         frustration,
		ChurnScore:          score,
		ChurnRisk:           risk,
		IsPotentialPhishing: raw.IsPotentialPhishing,
		HasSensitiveData:    raw.HasSensitiveData,
		TicketType:          ticketType,
		TicketPriority:      priority,
		Recommendations:     strings.TrimSpace(raw.Recommendations),
	}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// coerceScore reads a number or numeric string; anything else counts as 0.
func coerceScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		n = parsed
	}
	if math.IsNaN(n) {
		return 0
	}
	if math.IsInf(n, 1) {
		return domain.MaxChurnScore
	}
	if math.IsInf(n, -1) {
		return domain.MinChurnScore
	}
	return int(math.Round(math.Max(math.Min(n, domain.MaxChurnScore), domain.MinChurnScore)))
}

func normalize[T ~string](field, value string, allowed map[string]T) (T, error) {
	key := strings.ToUpper(strings.TrimSpace(value))
	if v, ok := allowed[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: unexpected %s %q", ErrInvalidResponse, field, value)
}
