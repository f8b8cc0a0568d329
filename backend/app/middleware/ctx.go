package middleware

import (
	"context"

	"storyhub/backend/app/services"
)

func GetIdentity(ctx context.Context) *services.Identity {
	if v := ctx.Value(IdentityKey); v != nil {
		if id, ok := v.(*services.Identity); ok {
			return id
		}
	}
	return nil
}
