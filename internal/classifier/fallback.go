package classifier

import (
	"strings"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

var (
	negativeWords = []string{
		"molesto",
		"inaceptable",
		"decepcionado",
		"indignado",
		"frustrado",
		"urgente",
		"crítico",
		"critico",
		"critica",
		"caído",
		"caido",
		"no funciona",
		"no ha funcionado",
		"sigue igual",
		"perdiendo dinero",
		"llevo esperando",
		"unacceptable",
		"disappointed",
		"frustrated",
		"angry",
		"not working",
		"still broken",
		"losing money",
	}
	positiveWords = []string{
		"gracias",
		"agradezco",
		"excelente",
		"muy buen",
		"funciona bien",
		"satisfecho",
		"satisfechos",
		"thank you",
		"thanks",
		"excellent",
		"works well",
		"satisfied",
	}
	highFrustrationWords = []string{
		"inaceptable",
		"intolerable",
		"unacceptable",
	}
	phishingSignals = []string{
		"http://",
		"https://",
		"verificar cuenta",
		"bloqueo de su cuenta",
		"verify your account",
		"account will be blocked",
	}
	sensitiveSignals = []string{
		"usuario",
		"contraseña",
		"password",
		"clave",
		"login",
	}
	cancellationPhrases = []string{
		"cancelar el contrato",
		"cancelar contrato",
		"terminar el contrato",
		"rescindir",
		"cambiar de proveedor",
		"cancel the contract",
		"cancel our contract",
		"terminate the contract",
		"switch provider",
	}
	criticalPhrases = []string{
		"caído",
		"caido",
		"no funciona",
		"perdiendo dinero",
		"system is down",
		"not working",
		"losing money",
		"outage",
	}
	urgentPhrases = []string{
		"urgente",
		"urgent",
	}
	enhancementPhrases = []string{
		"mejora",
		"ajuste",
		"nueva funcionalidad",
		"enhancement",
		"new feature",
		"improvement",
	}
)

const fallbackPrefix = "Analyzed with the local rule engine (fallback). "

// Fallback is the deterministic keyword classifier used when the remote
// service is unavailable.
type Fallback struct{}

// Classify scores text with keyword counts. Any input, including the empty
// string, yields a structurally valid result.
func (Fallback) Classify(text string) domain.AnalysisResult {
	lower := strings.ToLower(text)

	negatives := countMatches(lower, negativeWords)
	positives := countMatches(lower, positiveWords)

	sentiment := domain.SentimentNeutral
	if negatives > positives && negatives > 0 {
		sentiment = domain.SentimentNegative
	} else if positives > negatives && positives > 0 {
		sentiment = domain.SentimentPositive
	}

	frustration := domain.FrustrationLow
	if sentiment == domain.SentimentNegative {
		frustration = domain.FrustrationMedium
		if containsAny(lower, highFrustrationWords) {
			frustration = domain.FrustrationHigh
		}
	}

	phishing := containsAny(lower, phishingSignals)
	sensitive := containsAny(lower, sensitiveSignals)

	score := 20
	if sentiment == domain.SentimentNegative {
		score += 40
	}
	switch frustration {
	case domain.FrustrationMedium:
		score += 20
	case domain.FrustrationHigh:
		score += 35
	}
	if phishing {
		score += 5
	}
	if sensitive {
		score += 5
	}
	if containsAny(lower, cancellationPhrases) {
		score += 30
	}
	score = domain.ClampChurnScore(score)
	risk := domain.RiskForScore(score)

	priority := domain.TicketPriorityMedium
	if containsAny(lower, criticalPhrases) {
		priority = domain.TicketPriorityCritical
	} else if containsAny(lower, urgentPhrases) {
		priority = domain.TicketPriorityHigh
	}

	ticketType := domain.TicketTypeCorrective
	if containsAny(lower, enhancementPhrases) {
		ticketType = domain.TicketTypeEvolutive
	}

	return domain.AnalysisResult{
		Sentiment:           sentiment,
		Frustration:         frustration,
		ChurnScore:          score,
		ChurnRisk:           risk,
		IsPotentialPhishing: phishing,
		HasSensitiveData:    sensitive,
		TicketType:          ticketType,
		TicketPriority:      priority,
		Recommendations:     recommendations(risk, phishing, sensitive),
	}
}

func recommendations(risk domain.ChurnRisk, phishing, sensitive bool) string {
	var b strings.Builder
	b.WriteString(fallbackPrefix)
	switch risk {
	case domain.ChurnRiskHigh:
		b.WriteString("Contact the client within the next 24 hours and prioritise resolving the incident.")
	case domain.ChurnRiskMedium:
		b.WriteString("Follow up on the ticket and keep the client informed of progress.")
	default:
		b.WriteString("Keep the current service level and reinforce positive communication with the client.")
	}
	if phishing {
		b.WriteString(" Possible phishing attempt, escalate to security.")
	}
	if sensitive {
		b.WriteString(" The ticket may contain credentials or sensitive data, ask the client to remove them.")
	}
	return b.String()
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
