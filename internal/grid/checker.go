package grid

import (
	"context"

	"go.uber.org/zap"
)

// ConflictChecker asks the backend whether a proposed time range collides
// with an existing booking for the same engineer and date.
type ConflictChecker struct {
	gw     Gateway
	logger *zap.Logger
}

func NewConflictChecker(gw Gateway, logger *zap.Logger) *ConflictChecker {
	return &ConflictChecker{gw: gw, logger: logger}
}

// HasConflict fails open: when the check itself errors, it reports no
// conflict and logs, so a transient network fault cannot block the operator.
// The backend re-checks the invariant transactionally at write time, which is
// what actually keeps the diary consistent.
func (c *ConflictChecker) HasConflict(ctx context.Context, q ConflictQuery) bool {
	conflict, err := c.gw.CheckConflict(ctx, q)
	if err != nil {
		c.logger.Warn("Conflict check failed, allowing save to proceed",
			zap.Int64("engineer_id", q.EngineerID),
			zap.String("date", q.Date),
			zap.Error(err),
		)
		return false
	}
	return conflict
}
