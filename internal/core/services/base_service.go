package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/SscSPs/credit_ledger_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequireManager allows only callers that may manage credit lines.
func (s *BaseService) RequireManager(ctx context.Context, capability domain.Capability, action string) error {
	if capability.CanManageCredit() {
		return nil
	}
	s.LogWarn(ctx, "Capability check failed",
		slog.String("actor_id", capability.ActorID),
		slog.String("action", action))
	return fmt.Errorf("%w: %s requires an administrative role", apperrors.ErrForbidden, action)
}

// RequireClientAccess allows managers and the client acting on its own account.
func (s *BaseService) RequireClientAccess(ctx context.Context, capability domain.Capability, clientID string, action string) error {
	if capability.CanAccessClient(clientID) {
		return nil
	}
	s.LogWarn(ctx, "Capability check failed",
		slog.String("actor_id", capability.ActorID),
		slog.String("client_id", clientID),
		slog.String("action", action))
	return fmt.Errorf("%w: %s is not allowed on client %s", apperrors.ErrForbidden, action, clientID)
}
