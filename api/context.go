package api

import (
	"context"

	"github.com/vihaanharrison/portfolio-backend/models"
)

type keyType string

const accountKey keyType = "account"

// ctxWithAccount adds the authenticated account to the context
func ctxWithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// accountFromCtx retrieves the authenticated account, or nil when the
// request never passed the auth middleware.
func accountFromCtx(ctx context.Context) *models.Account {
	if value := ctx.Value(accountKey); value != nil {
		if account, ok := value.(*models.Account); ok {
			return account
		}
	}
	return nil
}
