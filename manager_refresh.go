package keymint

import (
	"context"
	"time"

	"github.com/keymint/keymint/internal/flows"
)

// RefreshToken rotates a refresh-token plaintext into a brand-new pair
// carrying the original user and scopes. The presented token and its linked
// access token are invalidated first: a refresh token mints at most one
// successor, and reuse after rotation fails like any unknown token.
//
//	Net storage effect on success: two deletes, two writes.
func (m *Manager) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if m == nil {
		return nil, ErrManagerNotReady
	}

	result := flows.RunRefresh(ctx, refreshToken, m.deps.Refresh)

	switch result.Failure {
	case flows.RefreshFailureNone:

	case flows.RefreshFailureStorage:
		m.metricInc(MetricRefreshFailure)
		m.metricInc(MetricStorageFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRefresh,
			Success:   false,
			Error:     errString(result.Err),
		})
		return nil, result.Err

	case flows.RefreshFailureGenerate:
		m.metricInc(MetricRefreshFailure)
		if result.Pair.Failure == flows.GenerateFailureStoreAccess ||
			result.Pair.Failure == flows.GenerateFailureStoreRefresh {
			m.metricInc(MetricStorageFailure)
		}
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRefresh,
			UserID:    result.Record.UserID,
			Success:   false,
			Error:     errString(result.Err),
		})
		return nil, result.Err

	case flows.RefreshFailureExpired:
		m.metricInc(MetricRefreshFailure)
		m.metricInc(MetricExpiredPurged)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRefresh,
			UserID:    result.Record.UserID,
			TokenKind: kindString(result.Record),
			Success:   false,
			Error:     "expired",
		})
		return nil, ErrTokenInvalid

	case flows.RefreshFailureConsumed:
		m.metricInc(MetricRefreshFailure)
		m.metricInc(MetricRefreshReuseBlocked)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRefresh,
			UserID:    result.Record.UserID,
			TokenKind: kindString(result.Record),
			Success:   false,
			Error:     "already rotated",
		})
		return nil, ErrTokenInvalid

	default:
		m.metricInc(MetricRefreshFailure)
		m.auditEmit(ctx, AuditEvent{
			EventType: AuditEventRefresh,
			TokenKind: kindString(result.Record),
			Success:   false,
			Error:     ErrTokenInvalid.Error(),
		})
		return nil, ErrTokenInvalid
	}

	m.metricInc(MetricRefreshSuccess)
	m.auditEmit(ctx, AuditEvent{
		EventType: AuditEventRefresh,
		UserID:    result.Record.UserID,
		TokenKind: kindString(result.Record),
		Success:   true,
	})

	return &TokenPair{
		AccessToken:  result.Pair.AccessToken,
		RefreshToken: result.Pair.RefreshToken,
		ExpiresIn:    int64(m.config.Token.AccessTTL / time.Second),
		TokenType:    TokenTypeBearer,
	}, nil
}
