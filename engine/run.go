package engine

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const runIdKey contextKey = "runId"

func NewRunId() string {
	return uuid.NewString()
}

func WithRunId(ctx context.Context, runId string) context.Context {
	return context.WithValue(ctx, runIdKey, runId)
}

func RunIdFromContext(ctx context.Context) string {
	v, ok := ctx.Value(runIdKey).(string)
	if !ok {
		return ""
	}
	return v
}
