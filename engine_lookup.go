package credstore

import "context"

// Find looks up the credential record for username in the call's realm.
// It returns (nil, nil) when no record exists; [Found] is the boolean
// projection over that contract. Resolver errors propagate verbatim.
//
// The returned record is the low-level surface and includes the raw digest;
// callers that only need a yes/no answer should prefer [Engine.Exists] or
// [Engine.VerifyPassword].
func (e *Engine) Find(ctx context.Context, r Resolver, username string, opts ...CallOption) (*Record, error) {
	settings := applyCallOptions(ctx, opts)
	return e.find(ctx, settings, r, username)
}

// Exists reports whether a record occupies the identity key. It is a pure
// projection of [Engine.Find]: it never invents an error of its own, and a
// lookup failure surfaces unchanged with a false result.
func (e *Engine) Exists(ctx context.Context, r Resolver, username string, opts ...CallOption) (bool, error) {
	settings := applyCallOptions(ctx, opts)

	rec, err := e.find(ctx, settings, r, username)
	if err != nil {
		return false, err
	}
	return Found(rec), nil
}

// find is the shared lookup path. Every operation that reads a record goes
// through here, so the reserved-field integrity check has a single
// chokepoint.
func (e *Engine) find(ctx context.Context, settings callSettings, r Resolver, username string) (*Record, error) {
	resolver := e.resolverFor(r)
	if err := validateIdentity(resolver, username, settings.realm); err != nil {
		return nil, err
	}

	rec, err := resolver.Find(ctx, Lookup{Realm: settings.realm, Username: username})
	if err != nil {
		e.emitAudit(ctx, settings, auditEventFindFailure, false, username, err, nil)
		return nil, err
	}

	if err := checkReservedFields(rec); err != nil {
		e.emitAudit(ctx, settings, auditEventFindFailure, false, username, err, func() map[string]string {
			return map[string]string{
				"reason": "reserved_field",
			}
		})
		return nil, err
	}

	if rec == nil {
		e.metricInc(MetricFindMiss)
		e.emitAudit(ctx, settings, auditEventFindMiss, true, username, nil, nil)
		return nil, nil
	}

	e.metricInc(MetricFindHit)
	e.emitAudit(ctx, settings, auditEventFindHit, true, username, nil, nil)
	return rec, nil
}
