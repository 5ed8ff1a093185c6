package llm

import "context"

type ctxKey int

const (
	purposeKey ctxKey = iota
	materialKey
)

// Purpose labels recorded with every request.
const (
	PurposeRecommendation = "recommendation"
	PurposeQuestionGen    = "question-gen"
)

// WithPurpose tags requests made with ctx so usage can be grouped by what
// they were for.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose tag, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithMaterial ties requests made with ctx to a study material, so the
// request log can show which file a quiz was generated from.
func WithMaterial(ctx context.Context, materialID string) context.Context {
	if materialID == "" {
		return ctx
	}
	return context.WithValue(ctx, materialKey, materialID)
}

// MaterialFrom returns the material id set by WithMaterial, if any.
func MaterialFrom(ctx context.Context) string {
	v, _ := ctx.Value(materialKey).(string)
	return v
}
