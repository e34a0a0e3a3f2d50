package credstore

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventFindHit            = "find_hit"
	auditEventFindMiss           = "find_miss"
	auditEventFindFailure        = "find_failure"
	auditEventVerifySuccess      = "verify_success"
	auditEventVerifyFailure      = "verify_failure"
	auditEventSetPasswordSuccess = "set_password_success"
	auditEventSetPasswordFailure = "set_password_failure"
	auditEventRegisterSuccess    = "register_success"
	auditEventRegisterDuplicate  = "register_duplicate"
	auditEventRegisterFailure    = "register_failure"
)

// AuditErrorCode classifies an operation error into a small stable vocabulary
// for sinks, so dashboards do not parse raw error strings.
type AuditErrorCode string

const (
	auditErrDuplicate     AuditErrorCode = "duplicate"
	auditErrNoRecord      AuditErrorCode = "no_record"
	auditErrReservedField AuditErrorCode = "reserved_field"
	auditErrValidation    AuditErrorCode = "validation"
	auditErrCollaborator  AuditErrorCode = "collaborator_failure"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	settings callSettings,
	eventType string,
	success bool,
	username string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}
	if settings.quiet {
		return
	}
	if success && e.config.Audit.Quiet && !settings.verbose {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Realm:     settings.realm,
		Username:  username,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrIdentityExists),
		errors.Is(err, ErrResolverDuplicate):
		return auditErrDuplicate
	case errors.Is(err, ErrResolverNoRecord):
		return auditErrNoRecord
	case errors.Is(err, ErrReservedField):
		return auditErrReservedField
	case errors.Is(err, ErrNilResolver),
		errors.Is(err, ErrUsernameTooShort),
		errors.Is(err, ErrUsernameTooLong),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrRealmTooShort),
		errors.Is(err, ErrRealmTooLong):
		return auditErrValidation
	default:
		// Anything else came from a collaborator (resolver I/O or hasher)
		// and passes through the engine verbatim.
		return auditErrCollaborator
	}
}
