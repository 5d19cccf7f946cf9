package classifier

import (
	"context"
	"fmt"

	"github.com/spec-kit/ticket-insights/internal/domain"
)

// Source names the classifier that produced an outcome.
type Source string

const (
	SourceRemote   Source = "REMOTE"
	SourceFallback Source = "FALLBACK"
)

// Outcome is exactly one classifier's result. RemoteErr holds the reason the
// remote call was skipped or failed when Source is SourceFallback.
type Outcome struct {
	Result    domain.AnalysisResult
	Source    Source
	RemoteErr error
}

// UsedFallback reports whether the local engine produced the result.
func (o Outcome) UsedFallback() bool {
	return o.Source == SourceFallback
}

// Resolver tries the remote classifier and recovers locally on any failure.
type Resolver struct {
	remote   RemoteClassifier
	fallback Fallback
}

// NewResolver builds a resolver. A nil remote always falls back.
func NewResolver(remote RemoteClassifier) *Resolver {
	return &Resolver{remote: remote}
}

// Resolve never fails: a remote error is carried in the outcome and the
// fallback result is returned in its place.
func (r *Resolver) Resolve(ctx context.Context, text string, cc domain.ClientContext) Outcome {
	if r.remote == nil {
		return r.local(text, fmt.Errorf("%w: remote classifier not configured", ErrServiceUnavailable))
	}
	result, err := r.remote.Classify(ctx, text, cc)
	if err != nil {
		return r.local(text, err)
	}
	return Outcome{Result: result, Source: SourceRemote}
}

func (r *Resolver) local(text string, reason error) Outcome {
	return Outcome{
		Result:    r.fallback.Classify(text),
		Source:    SourceFallback,
		RemoteErr: reason,
	}
}
