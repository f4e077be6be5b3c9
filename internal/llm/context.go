package llm

import "context"

// Journal purposes that are not a route label. Chat replies are journaled
// under the route that answered them.
const (
	PurposeQuiz    = "quiz"
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx with the label the request journal files a call
// under. An empty purpose leaves ctx untouched.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return PurposeUnknown
}
