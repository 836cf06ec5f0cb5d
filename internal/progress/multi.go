package progress

import (
	"context"

	"chartsnap-backend/internal/domain"
)

// Multi forwards each line to every wrapped logger in order. The first
// failure stops the fan-out and propagates, matching the pipeline's
// no-recovery error policy.
type Multi struct {
	loggers []domain.ProgressLogger
}

func NewMulti(loggers ...domain.ProgressLogger) *Multi {
	return &Multi{loggers: loggers}
}

func (m *Multi) Log(ctx context.Context, message string) error {
	for _, l := range m.loggers {
		if err := l.Log(ctx, message); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.ProgressLogger = (*Multi)(nil)
