package credstore

// Validation runs synchronously before any resolver or hasher call, and the
// checks apply in a fixed precedence order so that a call with several bad
// inputs fails deterministically:
//
//	resolver present
//	username too short, then too long
//	password too short (password-taking operations only)
//	realm too short, then too long
//
// The original callback contract also guarded argument types at runtime;
// those checks collapse into Go's type system and only the nil-interface
// check survives.

// validateIdentity guards the operations that take no password (Find,
// Exists, handle construction).
func validateIdentity(r Resolver, username, realm string) error {
	if r == nil {
		return ErrNilResolver
	}
	if len(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	return validateRealm(realm)
}

// validateCredentials guards the password-taking operations (VerifyPassword,
// SetPassword, Register).
func validateCredentials(r Resolver, username, pass, realm string) error {
	if r == nil {
		return ErrNilResolver
	}
	if len(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if len(pass) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return validateRealm(realm)
}

func validateRealm(realm string) error {
	if len(realm) < MinRealmLength {
		return ErrRealmTooShort
	}
	if len(realm) > MaxRealmLength {
		return ErrRealmTooLong
	}
	return nil
}

// checkReservedFields rejects records whose Fields keys collide with the
// reserved names. A collision means the resolver is injecting state that
// would shadow identity or credential data, which is a structural integrity
// failure rather than a recoverable condition.
func checkReservedFields(rec *Record) error {
	if rec == nil {
		return nil
	}
	for key := range rec.Fields {
		if isReservedField(key) {
			return ErrReservedField
		}
	}
	return nil
}

func isReservedField(name string) bool {
	switch name {
	case "realm", "username", "digest":
		return true
	}
	return false
}
