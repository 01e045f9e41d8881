package keymint

import (
	"context"
	"time"

	"github.com/keymint/keymint/internal/flows"
)

// GenerateToken issues a fresh access/refresh pair for userID. scopes may be
// nil, which is recorded as an empty list. The returned plaintexts are the
// only copies that will ever exist.
//
//	Side effects: two storage writes (access record, then refresh record
//	linking back to it). Storage failures propagate unmasked.
func (m *Manager) GenerateToken(ctx context.Context, userID string, scopes []string) (*TokenPair, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	result := flows.RunGenerate(ctx, userID, scopes, m.deps.Generate)

	switch result.Failure {
	case flows.GenerateFailureNone:

	case flows.GenerateFailureInvalidUserID:
		m.metricInc(MetricGenerateFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventGenerate,
			Success:   false,
			Error:     ErrInvalidUserID.Error(),
		})
		return nil, ErrInvalidUserID

	case flows.GenerateFailureStoreAccess, flows.GenerateFailureStoreRefresh:
		m.metricInc(MetricGenerateFailure)
		m.metricInc(MetricStorageFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventGenerate,
			UserID:    userID,
			Success:   false,
			Error:     errString(result.Err),
		})
		return nil, result.Err

	default:
		m.metricInc(MetricGenerateFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventGenerate,
			UserID:    userID,
			Success:   false,
			Error:     errString(result.Err),
		})
		return nil, result.Err
	}

	m.metricInc(MetricGenerateSuccess)
	m.auditEmit(ctx, AuditEvent{
		EventType: AuditEventGenerate,
		UserID:    userID,
		Success:   true,
	})

	return &TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    int64(m.config.Token.AccessTTL / time.Second),
		TokenType:    TokenTypeBearer,
	}, nil
}
