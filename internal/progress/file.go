// Package progress implements the progress logger port: an append-only
// stream of job:start / job:progress / job:complete lines.
package progress

import (
	"context"
	"fmt"

	"gopkg.in/natefinch/lumberjack.v2"

	"chartsnap-backend/internal/domain"
)

// FileLogger appends timestamped progress lines to a log file, rotating it
// before it grows unbounded. One file per job keeps the lines of concurrent
// runs apart.
type FileLogger struct {
	out   *lumberjack.Logger
	clock domain.Clock
}

func NewFileLogger(path string, clock domain.Clock) *FileLogger {
	return &FileLogger{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // MB
			MaxBackups: 3,
		},
		clock: clock,
	}
}

func (l *FileLogger) Log(_ context.Context, message string) error {
	line := fmt.Sprintf("%s %s\n", l.clock.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"), message)
	if _, err := l.out.Write([]byte(line)); err != nil {
		return fmt.Errorf("progress file: %w", err)
	}
	return nil
}

func (l *FileLogger) Close() error {
	return l.out.Close()
}

var _ domain.ProgressLogger = (*FileLogger)(nil)
