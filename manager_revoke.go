package keymint

import (
	"context"

	"github.com/keymint/keymint/internal/flows"
)

// RevokeToken removes the record for any presented token, access or refresh.
// Revoking a refresh token also deletes its linked access token — the refresh
// token anchors the session. Revoking an access token leaves the sibling
// refresh token usable; full logout revokes both plaintexts the caller holds.
//
// An unknown or already-revoked token returns (false, nil): an idempotent
// miss, not an error.
func (m *Manager) RevokeToken(ctx context.Context, token string) (bool, error) {
	if m == nil {
		return false, ErrManagerNotReady
	}

	result := flows.RunRevoke(ctx, token, m.deps.Revoke)

	if result.Failure == flows.RevokeFailureStorage {
		m.metricInc(MetricStorageFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRevoke,
			TokenKind: kindString(result.Record),
			Success:   false,
			Error:     errString(result.Err),
		})
		return false, result.Err
	}

	if !result.Revoked {
		m.metricInc(MetricRevokeMiss)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRevoke,
			Success:   false,
			Error:     "not found",
		})
		return false, nil
	}

	m.metricInc(MetricRevokeSuccess)
	m.auditEmit(ctx, AuditEvent{
		EventType: AuditEventRevoke,
		UserID:    result.Record.UserID,
		TokenKind: kindString(result.Record),
		Success:   true,
	})

	return true, nil
}
