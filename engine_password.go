package credstore

import "context"

// SetPassword hashes pass with a fresh salt and stores the digest for
// username in the call's realm. Two calls with the same plaintext produce
// different digests.
//
// The identity must already exist. The engine does not pre-check existence
// (that would cost a redundant round trip); it relies on the resolver's
// UpdateHash to report absence, so a missing identity surfaces as the
// resolver's error wrapping [ErrResolverNoRecord]. A hasher failure aborts
// before any resolver call, leaving stored state untouched.
func (e *Engine) SetPassword(ctx context.Context, r Resolver, username, pass string, opts ...CallOption) error {
	settings := applyCallOptions(ctx, opts)
	resolver := e.resolverFor(r)

	if err := validateCredentials(resolver, username, pass, settings.realm); err != nil {
		return err
	}
	if e == nil || e.hasher == nil {
		return ErrEngineNotReady
	}

	if err := e.setDigest(ctx, settings, resolver, username, pass); err != nil {
		e.metricInc(MetricSetPasswordFailure)
		e.emitAudit(ctx, settings, auditEventSetPasswordFailure, false, username, err, nil)
		return err
	}

	e.metricInc(MetricSetPasswordSuccess)
	e.emitAudit(ctx, settings, auditEventSetPasswordSuccess, true, username, nil, nil)
	return nil
}

// setDigest is the hash-then-update step shared by SetPassword and Register.
// Inputs are assumed validated.
func (e *Engine) setDigest(ctx context.Context, settings callSettings, resolver Resolver, username, pass string) error {
	digest, err := e.hasher.Hash(pass)
	if err != nil {
		return err
	}

	return resolver.UpdateHash(ctx, Lookup{Realm: settings.realm, Username: username}, digest)
}
