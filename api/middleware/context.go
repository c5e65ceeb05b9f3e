package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/internal/accounts"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

type contextKey string

const (
	ctxAccountID contextKey = "account_id"
	ctxRole      contextKey = "actor_role"
	ctxAccount   contextKey = "account"
)

func AccountIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxAccountID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// AccountFromContext returns the authenticated account loaded by Auth.
func AccountFromContext(ctx context.Context) *accounts.AccountDTO {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAccount).(*accounts.AccountDTO); ok {
		return v
	}
	return nil
}

// WithAccount seeds the context with the authenticated account. Exposed for tests.
func WithAccount(ctx context.Context, account *accounts.AccountDTO) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if account == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxAccountID, account.ID)
	ctx = context.WithValue(ctx, ctxRole, account.Role)
	return context.WithValue(ctx, ctxAccount, account)
}
