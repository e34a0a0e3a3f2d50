package credstore

import "context"

// CallOption tunes a single operation invocation. Options never change the
// semantic outcome of a call; they select the realm for identity resolution
// and control diagnostic verbosity.
type CallOption func(*callSettings)

type callSettings struct {
	realm    string
	realmSet bool
	quiet    bool
	verbose  bool
}

// WithRealm scopes the call to the given realm instead of [DefaultRealm].
func WithRealm(realm string) CallOption {
	return func(s *callSettings) {
		s.realm = realm
		s.realmSet = true
	}
}

// WithQuiet suppresses audit emission for this call. The operation's error
// and result are delivered unchanged; only diagnostics go silent.
func WithQuiet() CallOption {
	return func(s *callSettings) {
		s.quiet = true
	}
}

// WithVerbose forces success-event emission for this call even when the
// engine was configured with AuditConfig.Quiet.
func WithVerbose() CallOption {
	return func(s *callSettings) {
		s.verbose = true
	}
}

// applyCallOptions folds the options over the defaults. Realm precedence:
// explicit WithRealm, then a realm attached to ctx, then DefaultRealm.
func applyCallOptions(ctx context.Context, opts []CallOption) callSettings {
	s := callSettings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if !s.realmSet {
		if realm, ok := realmFromContext(ctx); ok {
			s.realm = realm
		} else {
			s.realm = DefaultRealm
		}
	}
	return s
}
