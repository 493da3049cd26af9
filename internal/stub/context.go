package stub

import "context"

func withOwner(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ownerKey{}, token)
}

func owner(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey{}).(string)
	return v
}
