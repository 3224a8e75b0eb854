package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/leave"
	"ems/internal/platform/metrics"
)

const (
	JobMonthlyAccrual = "leave_monthly_accrual"
	JobCarryForward   = "leave_carry_forward"
	JobCapEnforcement = "leave_cap_enforcement"
)

type Service struct {
	DB      *pgxpool.Pool
	Leave   *leave.Service
	Metrics *metrics.Collector
	Tick    time.Duration
	queue   chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, leaveSvc *leave.Service, collector *metrics.Collector, tick time.Duration) *Service {
	return &Service{
		DB:      db,
		Leave:   leaveSvc,
		Metrics: collector,
		Tick:    tick,
		queue:   make(chan job, 64),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Tick > 0 {
		go s.schedule(ctx)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow executes a job synchronously, bypassing the queue. The HTTP trigger
// endpoints use it so the caller sees the summary.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := int64(0)
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.Metrics != nil {
		s.Metrics.RecordJob(err != nil)
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != 0 {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// schedule fires the calendar jobs. The tick is daily by default; the handlers
// are idempotent, so a tick landing twice on the same calendar day is harmless.
func (s *Service) schedule(ctx context.Context) {
	ticker := time.NewTicker(s.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.fireDue(now.UTC())
		}
	}
}

func (s *Service) fireDue(now time.Time) {
	if now.Day() == 1 {
		// Carry-forward runs before January's accrual so the accrual works
		// from the post-carry baseline.
		if now.Month() == time.January {
			year := now.Year()
			s.Enqueue(JobCarryForward, func(ctx context.Context) (any, error) {
				return s.Leave.RunCarryForward(ctx, year)
			})
		}
		accYear, accMonth := previousMonth(now)
		s.Enqueue(JobMonthlyAccrual, func(ctx context.Context) (any, error) {
			return s.Leave.RunMonthlyAccrual(ctx, accYear, accMonth)
		})
	}
	if now.Day() == 1 && isQuarterStart(now.Month()) {
		s.Enqueue(JobCapEnforcement, func(ctx context.Context) (any, error) {
			return s.Leave.EnforceCombinedCap(ctx)
		})
	}
}

func previousMonth(now time.Time) (int, int) {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}

func isQuarterStart(m time.Month) bool {
	switch m {
	case time.January, time.April, time.July, time.October:
		return true
	}
	return false
}
