package classifier

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

const systemPrompt = `You are an expert analyst in software support, customer experience, cybersecurity and churn management.
Analyse the text of a support ticket and ALWAYS answer with a single valid JSON object and nothing else.

Required structure and allowed values:
{
  "sentiment": "POSITIVE|NEUTRAL|NEGATIVE",
  "frustration": "LOW|MEDIUM|HIGH",
  "churnScore": 0-100 integer,
  "churnRisk": "LOW|MEDIUM|HIGH",
  "isPotentialPhishing": true|false,
  "hasSensitiveData": true|false,
  "ticketType": "CORRECTIVE|EVOLUTIVE|OTHER",
  "ticketPriority": "LOW|MEDIUM|HIGH|CRITICAL",
  "recommendations": "short text for the account manager, at most 3 sentences, in the language of the ticket"
}

churnRisk must agree with churnScore: HIGH for 70 or more, MEDIUM for 40 to 69, LOW below 40.

Reference keywords follow. Treat them as signals, not rules: weigh the overall meaning of the ticket above
the presence of any single word.
- negative tone: %s
- positive tone: %s
- contract cancellation: %s
- outage or financial loss: %s
- enhancement request: %s

Do not mark a ticket as phishing only because it contains a URL; require a deceptive request such as asking
to verify an account or follow a link under threat. Do not mark sensitive data only because the word
"password" or "user" appears; require an actual credential, personal identifier or secret.

Use the client context: a long relationship and several contracts lower churn risk when the ticket itself is
not severe. A severe ticket stays high risk regardless of tenure.`

// BuildSystemPrompt renders the instruction block sent with every request.
func BuildSystemPrompt() string {
	return fmt.Sprintf(systemPrompt,
		quoteList(negativeWords),
		quoteList(positiveWords),
		quoteList(cancellationPhrases),
		quoteList(criticalPhrases),
		quoteList(enhancementPhrases),
	)
}

type promptContext struct {
	ClientName        string  `json:"clientName"`
	RelationshipStart string  `json:"relationshipStart,omitempty"`
	RelationshipYears float64 `json:"relationshipYears,omitempty"`
	TotalContracts    int     `json:"totalContracts"`
}

// BuildUserPrompt embeds the anonymized ticket text and the client context.
func BuildUserPrompt(text string, cc domain.ClientContext, now time.Time) string {
	pc := promptContext{ClientName: cc.Name, TotalContracts: cc.TotalContracts}
	if cc.RelationshipStart != nil {
		pc.RelationshipStart = cc.RelationshipStart.Format("2006-01-02")
		years := now.Sub(*cc.RelationshipStart).Hours() / (24 * 365.25)
		if years > 0 {
			pc.RelationshipYears = float64(int(years*10)) / 10
		}
	}
	ctxJSON, _ := json.MarshalIndent(pc, "", "  ")

	var b strings.Builder
	b.WriteString("Ticket text:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n\nClient context:\n")
	b.Write(ctxJSON)
	return b.String()
}

func quoteList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + w + `"`
	}
	return strings.Join(quoted, ", ")
}
