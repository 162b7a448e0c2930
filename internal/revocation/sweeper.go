package revocation

import (
	"context"
	"log/slog"
	"time"
)

type Sweeper struct {
	Registry Registry
	Interval time.Duration
	Logger   *slog.Logger
}

// Run purges expired entries every Interval until ctx is cancelled. It returns
// at once when Interval is not positive.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Interval <= 0 {
		s.logger().Error("revocation_sweep_disabled", "interval", s.Interval)
		return
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	l := s.logger()
	n, err := s.Registry.PurgeExpired(ctx)
	if err != nil {
		l.Error("revocation_sweep_failed", "error", err)
		return 0
	}
	if n > 0 {
		l.Info("revocation_sweep", "purged", n)
	}
	return n
}

func (s *Sweeper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
