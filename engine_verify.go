package credstore

import (
	"context"
	"time"
)

// VerifyPassword checks password against the stored digest for username in
// the call's realm.
//
// A missing identity and a wrong password are deliberately indistinguishable:
// both return (false, nil). Callers therefore cannot be used as an account
// enumeration oracle. (true, nil) is returned only on an exact verified
// match; hasher and resolver errors propagate verbatim.
func (e *Engine) VerifyPassword(ctx context.Context, r Resolver, username, pass string, opts ...CallOption) (bool, error) {
	settings := applyCallOptions(ctx, opts)
	resolver := e.resolverFor(r)

	if err := validateCredentials(resolver, username, pass, settings.realm); err != nil {
		return false, err
	}
	if e == nil || e.hasher == nil {
		return false, ErrEngineNotReady
	}

	start := time.Now()

	rec, err := resolver.Find(ctx, Lookup{Realm: settings.realm, Username: username})
	if err != nil {
		e.emitAudit(ctx, settings, auditEventVerifyFailure, false, username, err, nil)
		return false, err
	}
	if err := checkReservedFields(rec); err != nil {
		e.emitAudit(ctx, settings, auditEventVerifyFailure, false, username, err, nil)
		return false, err
	}

	if rec == nil {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, settings, auditEventVerifyFailure, false, username, nil, func() map[string]string {
			// The caller sees a plain mismatch; only diagnostics record why.
			return map[string]string{
				"reason": "unknown_identity",
			}
		})
		return false, nil
	}

	ok, err := e.hasher.Compare(pass, rec.Digest)
	e.metricObserve(MetricVerifyLatency, time.Since(start))
	if err != nil {
		e.emitAudit(ctx, settings, auditEventVerifyFailure, false, username, err, func() map[string]string {
			return map[string]string{
				"reason": "compare_failed",
			}
		})
		return false, err
	}

	if !ok {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, settings, auditEventVerifyFailure, false, username, nil, func() map[string]string {
			return map[string]string{
				"reason": "mismatch",
			}
		})
		return false, nil
	}

	e.metricInc(MetricVerifySuccess)
	e.emitAudit(ctx, settings, auditEventVerifySuccess, true, username, nil, nil)
	return true, nil
}
