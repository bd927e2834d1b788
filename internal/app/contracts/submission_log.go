package contracts

import (
	"context"
	"labbridge-service/internal/app/models"
)

// SubmissionLogRepository records every submission attempt so the
// submitted-but-unlinked gap (external order created, local identifier
// write-back failed) stays visible to operators.
type SubmissionLogRepository interface {
	Insert(ctx context.Context, log *models.SubmissionLog) error
	UpdatePhase(ctx context.Context, id, phase, vitalOrderID, errorText string) error
}
