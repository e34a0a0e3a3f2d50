package credstore

import (
	"context"
	"sync"
)

// Identity is a client-side handle bound to one (resolver, username, realm)
// triple. Its methods project the stateless engine operations, with one extra
// behavior: Find, Refresh, and Register copy the fetched record's Fields onto
// the handle so later reads observe the stored state without re-fetching.
//
// The handle caches a point-in-time copy, never a live view, and once it has
// been populated it never reports unpopulated again. Discard the handle when
// done; there is no server-side counterpart to release.
type Identity struct {
	engine   *Engine
	resolver Resolver
	username string
	realm    string

	mu        sync.Mutex
	populated bool
	digest    string
	fields    map[string]string
}

// Identity validates the binding inputs synchronously and returns a handle.
// The realm option (or context realm) is fixed at construction; per-call
// realm options on handle methods are not accepted.
func (e *Engine) Identity(r Resolver, username string, opts ...CallOption) (*Identity, error) {
	settings := applyCallOptions(context.Background(), opts)
	resolver := e.resolverFor(r)

	if err := validateIdentity(resolver, username, settings.realm); err != nil {
		return nil, err
	}

	return &Identity{
		engine:   e,
		resolver: resolver,
		username: username,
		realm:    settings.realm,
	}, nil
}

// Username returns the bound username.
func (i *Identity) Username() string {
	return i.username
}

// Realm returns the bound realm.
func (i *Identity) Realm() string {
	return i.realm
}

// Populated reports whether a Find, Refresh, or Register has loaded record
// state onto the handle.
func (i *Identity) Populated() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.populated
}

// HasDigest reports whether the last populate saw a usable password digest.
// A populated handle without one usually means a registration that failed
// between insert and set-password, the stuck state described in
// [Engine.Register].
func (i *Identity) HasDigest() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.populated && i.digest != ""
}

// Field returns a cached caller-defined field from the last populate.
func (i *Identity) Field(name string) (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, ok := i.fields[name]
	return v, ok
}

// Fields returns a copy of the cached caller-defined fields.
func (i *Identity) Fields() map[string]string {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make(map[string]string, len(i.fields))
	for k, v := range i.fields {
		out[k] = v
	}
	return out
}

// Find fetches the bound identity's record and, when one exists, copies its
// fields onto the handle. Returns (nil, nil) when the identity does not
// exist; the handle then stays in its previous populate state.
func (i *Identity) Find(ctx context.Context, opts ...CallOption) (*Record, error) {
	rec, err := i.engine.find(ctx, i.callSettings(ctx, opts), i.resolver, i.username)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	if err := i.populate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Refresh is Find for callers that only care about the handle cache, not the
// raw record.
func (i *Identity) Refresh(ctx context.Context, opts ...CallOption) error {
	_, err := i.Find(ctx, opts...)
	return err
}

// Exists reports whether the bound identity occupies its key.
func (i *Identity) Exists(ctx context.Context, opts ...CallOption) (bool, error) {
	return i.engine.Exists(ctx, i.resolver, i.username, i.boundOptions(opts)...)
}

// VerifyPassword checks pass against the stored digest for the bound
// identity. See [Engine.VerifyPassword] for the anti-enumeration contract.
func (i *Identity) VerifyPassword(ctx context.Context, pass string, opts ...CallOption) (bool, error) {
	return i.engine.VerifyPassword(ctx, i.resolver, i.username, pass, i.boundOptions(opts)...)
}

// SetPassword stores a fresh digest for the bound identity.
func (i *Identity) SetPassword(ctx context.Context, pass string, opts ...CallOption) error {
	return i.engine.SetPassword(ctx, i.resolver, i.username, pass, i.boundOptions(opts)...)
}

// Register creates the bound identity with pass and populates the handle from
// the confirmed record.
func (i *Identity) Register(ctx context.Context, pass string, opts ...CallOption) (*Record, error) {
	rec, err := i.engine.Register(ctx, i.resolver, i.username, pass, i.boundOptions(opts)...)
	if err != nil {
		return nil, err
	}

	if err := i.populate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// populate copies record state onto the handle. The reserved-field check has
// already run on the shared lookup path; it is repeated here because populate
// is the boundary the guarantee is about, and handles can be fed records from
// resolver paths added later.
func (i *Identity) populate(rec *Record) error {
	if err := checkReservedFields(rec); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.populated = true
	i.digest = rec.Digest
	i.fields = make(map[string]string, len(rec.Fields))
	for k, v := range rec.Fields {
		i.fields[k] = v
	}
	return nil
}

func (i *Identity) callSettings(ctx context.Context, opts []CallOption) callSettings {
	settings := applyCallOptions(ctx, i.boundOptions(opts))
	return settings
}

// boundOptions appends the handle realm after caller options so verbosity
// options apply while the realm binding always wins.
func (i *Identity) boundOptions(opts []CallOption) []CallOption {
	bound := make([]CallOption, 0, len(opts)+1)
	for _, opt := range opts {
		if opt != nil {
			bound = append(bound, opt)
		}
	}
	return append(bound, WithRealm(i.realm))
}
