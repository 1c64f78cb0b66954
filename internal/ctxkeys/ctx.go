package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AdminKey contextKey = "admin"
)

// Admin returns the authenticated admin username, or "" for anonymous
// requests.
func Admin(ctx context.Context) string {
	admin, _ := ctx.Value(AdminKey).(string)
	return admin
}

func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, AdminKey, username)
}
