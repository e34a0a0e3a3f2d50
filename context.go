package credstore

import "context"

type realmContextKey struct{}

// ContextWithRealm attaches a realm to ctx. Operations invoked without a
// WithRealm option resolve against this realm before falling back to
// [DefaultRealm]. Handy for request middleware that derives the realm from a
// hostname or tenant header once per request.
func ContextWithRealm(ctx context.Context, realm string) context.Context {
	return context.WithValue(ctx, realmContextKey{}, realm)
}

// RealmFromContext reports the realm attached by [ContextWithRealm], if any.
func RealmFromContext(ctx context.Context) (string, bool) {
	return realmFromContext(ctx)
}

func realmFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	realm, ok := ctx.Value(realmContextKey{}).(string)
	if !ok || realm == "" {
		return "", false
	}
	return realm, true
}
