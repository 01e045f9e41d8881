package keymint

import (
	"context"

	"github.com/keymint/keymint/internal/flows"
)

// ValidateToken resolves an access-token plaintext to its user context.
// Unknown, expired, and wrong-kind tokens all return [ErrTokenInvalid];
// callers cannot distinguish the cases. Expired records are purged as a side
// effect of the failed lookup.
//
// This is the hot path: one storage read, plus one best-effort delete on the
// expiry branch.
func (m *Manager) ValidateToken(ctx context.Context, token string) (*UserContext, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	start := m.clock()
	result := flows.RunValidate(ctx, token, m.deps.Validate)
	m.metricObserve(MetricValidateLatency, m.clock().Sub(start))

	switch result.Failure {
	case flows.ValidateFailureNone:

	case flows.ValidateFailureStorage:
		m.metricInc(MetricValidateFailure)
		m.metricInc(MetricStorageFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventValidate,
			Success:   false,
			Error:     errString(result.Err),
		})
		return nil, result.Err

	case flows.ValidateFailureExpired:
		m.metricInc(MetricValidateFailure)
		m.metricInc(MetricExpiredPurged)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventValidate,
			UserID:    result.Record.UserID,
			TokenKind: kindString(result.Record),
			Success:   false,
			Error:     "expired",
		})
		return nil, ErrTokenInvalid

	default:
		m.metricInc(MetricValidateFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventValidate,
			TokenKind: kindString(result.Record),
			Success:   false,
			Error:     ErrTokenInvalid.Error(),
		})
		return nil, ErrTokenInvalid
	}

	m.metricInc(MetricValidateSuccess)
	m.auditEmit(ctx, AuditEvent{
		EventType: AuditEventValidate,
		UserID:    result.Record.UserID,
		TokenKind: kindString(result.Record),
		Success:   true,
	})

	return &UserContext{
		UserID:    result.Record.UserID,
		Scopes:    result.Record.Scopes,
		Kind:      result.Record.Kind,
		ExpiresAt: result.Record.ExpiresAt,
	}, nil
}
