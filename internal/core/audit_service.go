package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/models"
)

// Audit actions.
const (
	AuditActionClaimsSet      = "CLAIMS_SET"
	AuditActionCreditsSet     = "CREDITS_SET"
	AuditActionOrderCompleted = "ORDER_COMPLETED"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{auditRepo: auditRepo, logger: logger}
}

// CreateAuditLog creates a new audit log entry.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if s.auditRepo == nil {
		return fmt.Errorf("AuditRepository not initialized in AuditService")
	}
	if logEntry.Action == "" {
		return fmt.Errorf("audit log action cannot be empty")
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

func (s *auditService) Record(ctx context.Context, actorID, action, targetType, targetID string, details map[string]interface{}) {
	entry := models.AuditLog{
		UserID:     actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := s.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit log",
			zap.String("action", action), zap.String("targetId", targetID), zap.Error(err))
	}
}
