package utils

import (
	"context"

	"github.com/markahope-aag/hazardos-sub001/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyOrgId         = appctx.ContextKeyOrgId
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyUserName      = appctx.ContextKeyUserName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetOrgIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyOrgId)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUserName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetOrgIdInContext(ctx context.Context, orgId string) context.Context {
	return appctx.Set(ctx, ContextKeyOrgId, orgId)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return appctx.Set(ctx, ContextKeyUserName, userName)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

// RequireActingUser resolves the acting user identity or fails with
// ErrorUnauthorized. Every mutating operation goes through this.
func RequireActingUser(ctx context.Context) (int, string, error) {
	userId, ok := GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return 0, "", ErrorUnauthorized
	}
	userName, _ := GetUserNameFromContext(ctx)
	return userId, userName, nil
}
