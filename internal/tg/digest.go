package tg

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow)
// and descriptors such as "@daily".
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron validates a digest schedule.
func ParseCron(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("cron %q: %w", expr, err)
	}
	return sched, nil
}

// Scheduler runs a job on a cron schedule until its context ends.
type Scheduler struct {
	expr  string
	sched cron.Schedule
	job   func(ctx context.Context) error
	log   *slog.Logger
}

func NewScheduler(expr string, job func(ctx context.Context) error, log *slog.Logger) (*Scheduler, error) {
	sched, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{expr: expr, sched: sched, job: job, log: log}, nil
}

// Next reports the first fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.sched.Next(t)
}

// Run starts the scheduler and blocks until ctx is done. Runs never
// overlap: a tick arriving while the job is still busy is skipped.
func (s *Scheduler) Run(ctx context.Context) {
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(s.sched, cron.FuncJob(func() {
		if err := s.job(ctx); err != nil {
			s.log.Error("scheduled job failed", "schedule", s.expr, "err", err)
		}
	}))
	c.Start()
	s.log.Info("scheduler started", "schedule", s.expr, "next", s.Next(time.Now()))
	<-ctx.Done()
	<-c.Stop().Done()
}

func parseChatID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id, err == nil
}
