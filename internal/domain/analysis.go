package domain

import "time"

// Sentiment is the overall tone of a ticket.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// Frustration grades how upset the customer sounds.
type Frustration string

const (
	FrustrationLow    Frustration = "LOW"
	FrustrationMedium Frustration = "MEDIUM"
	FrustrationHigh   Frustration = "HIGH"
)

// ChurnRisk buckets a churn score.
type ChurnRisk string

const (
	ChurnRiskLow    ChurnRisk = "LOW"
	ChurnRiskMedium ChurnRisk = "MEDIUM"
	ChurnRiskHigh   ChurnRisk = "HIGH"
)

const (
	MinChurnScore = 0
	MaxChurnScore = 100
)

// AnalysisResult is the output shape shared by the remote and local classifiers.
type AnalysisResult struct {
	Sentiment           Sentiment
	Frustration         Frustration
	ChurnScore          int
	ChurnRisk           ChurnRisk
	IsPotentialPhishing bool
	HasSensitiveData    bool
	TicketType          TicketType
	TicketPriority      TicketPriority
	Recommendations     string
}

// WithSecurityFlags OR-merges locally detected flags into the result. A local
// detection can raise a flag but never clear one.
func (r AnalysisResult) WithSecurityFlags(sensitive, phishing bool) AnalysisResult {
	r.HasSensitiveData = r.HasSensitiveData || sensitive
	r.IsPotentialPhishing = r.IsPotentialPhishing || phishing
	return r
}

// Analysis is the persisted, immutable analysis row of a ticket.
type Analysis struct {
	ID       int64
	TicketID int64
	AnalysisResult
	AnalyzedAt time.Time
}

// ClampChurnScore bounds a score to [MinChurnScore, MaxChurnScore].
func ClampChurnScore(score int) int {
	if score < MinChurnScore {
		return MinChurnScore
	}
	if score > MaxChurnScore {
		return MaxChurnScore
	}
	return score
}

// RiskForScore maps a churn score onto its risk bucket.
func RiskForScore(score int) ChurnRisk {
	switch {
	case score >= 70:
		return ChurnRiskHigh
	case score >= 40:
		return ChurnRiskMedium
	default:
		return ChurnRiskLow
	}
}
