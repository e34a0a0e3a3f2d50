package credstore

import (
	"context"
	"errors"
	"fmt"
)

// Register creates the identity and sets its first password, then re-fetches
// the record to confirm and return the stored state. The sequence is:
//
//  1. Existence check. An occupied key fails with [ErrIdentityExists] and no
//     insert is attempted.
//  2. Insert of the bare {realm, username} record.
//  3. Hash and store the password digest.
//  4. Re-fetch the now-complete record.
//
// The check in step 1 and the insert in step 2 are not atomic: two
// registrations racing on the same key can both pass the check. A resolver
// with a uniqueness constraint turns the loser's insert into
// [ErrIdentityExists]; a resolver without one can end up with duplicates.
// That property belongs to the storage layer and is intentionally not papered
// over with engine-side locking.
//
// Failures in steps 2-4 surface to the caller and are not rolled back. When
// step 2 succeeded but step 3 failed, the identity exists without a usable
// digest: later registrations fail with [ErrIdentityExists] and the record
// needs administrative cleanup. This is a known operational hazard of the
// non-transactional contract.
func (e *Engine) Register(ctx context.Context, r Resolver, username, pass string, opts ...CallOption) (*Record, error) {
	settings := applyCallOptions(ctx, opts)
	resolver := e.resolverFor(r)

	if err := validateCredentials(resolver, username, pass, settings.realm); err != nil {
		return nil, err
	}
	if e == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}

	lookup := Lookup{Realm: settings.realm, Username: username}

	existing, err := resolver.Find(ctx, lookup)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, settings, auditEventRegisterFailure, false, username, err, stageMetadata("existence_check"))
		return nil, err
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, settings, auditEventRegisterDuplicate, false, username, ErrIdentityExists, nil)
		return nil, ErrIdentityExists
	}

	if err := resolver.Insert(ctx, Record{Realm: settings.realm, Username: username}); err != nil {
		if errors.Is(err, ErrResolverDuplicate) {
			// Lost the check-then-insert race against a constrained resolver.
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, settings, auditEventRegisterDuplicate, false, username, err, nil)
			return nil, ErrIdentityExists
		}
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, settings, auditEventRegisterFailure, false, username, err, stageMetadata("insert"))
		return nil, err
	}

	if err := e.setDigest(ctx, settings, resolver, username, pass); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, settings, auditEventRegisterFailure, false, username, err, stageMetadata("set_password"))
		return nil, err
	}

	rec, err := resolver.Find(ctx, lookup)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, settings, auditEventRegisterFailure, false, username, err, stageMetadata("refetch"))
		return nil, err
	}
	if err := checkReservedFields(rec); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, settings, auditEventRegisterFailure, false, username, err, stageMetadata("refetch"))
		return nil, err
	}
	if rec == nil {
		err := fmt.Errorf("credstore: inserted record missing on re-fetch: %w", ErrResolverNoRecord)
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, settings, auditEventRegisterFailure, false, username, err, stageMetadata("refetch"))
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, settings, auditEventRegisterSuccess, true, username, nil, nil)
	return rec, nil
}

func stageMetadata(stage string) func() map[string]string {
	return func() map[string]string {
		return map[string]string{
			"stage": stage,
		}
	}
}
