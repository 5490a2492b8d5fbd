package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/output"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/recorder"
)

// ErrCycleRunning is returned when a refresh is requested while another is in progress.
var ErrCycleRunning = errors.New("refresh cycle already running")

// Notifier delivers run results and failures to the operator.
type Notifier interface {
	Enabled() bool
	NotifyRun(ctx context.Context, s *model.Summary, profiles []*model.Profile) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// RunReport describes one completed refresh cycle.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Profiles  []*model.Profile
	Failed    []model.SymbolResult
	Summary   *model.Summary
}

// Scheduler runs refresh cycles on demand and from cron.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Writer    *output.Writer
	Recorder  recorder.Recorder
	Notifier  Notifier
	Ctx       context.Context

	running sync.Mutex
	mu      sync.RWMutex
	last    *RunReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, w *output.Writer, rec recorder.Recorder, n Notifier) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Writer:    w,
		Recorder:  rec,
		Notifier:  n,
		Ctx:       ctx,
	}
}

// Register schedules the refresh cycle with a six-field cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Last returns the most recent completed cycle, or nil.
func (s *Scheduler) Last() *RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Scheduler) refreshTask() {
	if _, err := s.Refresh(s.Ctx); err != nil {
		if errors.Is(err, ErrCycleRunning) {
			log.Println("[WARN] previous refresh still running, skipping this tick")
			return
		}
		log.Printf("[ERROR] refresh: %v", err)
	}
}

// Refresh runs one cycle: collect, summarize, write, record and notify.
// Only a write failure fails the cycle; symbols that fail are reported in the summary.
func (s *Scheduler) Refresh(ctx context.Context) (*RunReport, error) {
	if !s.running.TryLock() {
		return nil, ErrCycleRunning
	}
	defer s.running.Unlock()

	start := time.Now()
	runID := uuid.NewString()
	log.Printf("[INFO] refresh %s: %d symbols", runID, len(s.Collector.Symbols))

	results := s.Collector.Collect(ctx)
	profiles, failed := model.SplitResults(results)

	summary := portfolio.Summarize(profiles, start)
	summary.RunID = runID
	portfolio.AttachFailures(summary, failed)

	if err := s.Writer.Write(profiles, summary); err != nil {
		s.trySend(ctx, fmt.Sprintf("❌ Refresh %s failed to write output: %v", runID, err))
		return nil, fmt.Errorf("write output: %w", err)
	}

	report := &RunReport{
		RunID:     runID,
		StartedAt: start,
		Duration:  time.Since(start),
		Profiles:  profiles,
		Failed:    failed,
		Summary:   summary,
	}

	if err := s.Recorder.RecordRun(&recorder.RunSnapshot{
		RunID:     runID,
		StartedAt: start,
		Duration:  report.Duration,
		Summary:   summary,
		Profiles:  profiles,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	log.Printf("[INFO] refresh %s done in %v: %d ok, %d failed, avg change %+.2f%%",
		runID, report.Duration.Round(time.Millisecond), len(profiles), len(failed), summary.AverageChangePercent)

	if s.Notifier != nil && s.Notifier.Enabled() {
		if err := s.Notifier.NotifyRun(ctx, summary, profiles); err != nil {
			log.Printf("[ERROR] notify run %s: %v", runID, err)
		}
	}
	return report, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/summary@MyBot" in group chats
	name := strings.SplitN(fields[0], "@", 2)[0]

	switch name {
	case "/summary":
		last := s.Last()
		if last == nil {
			return "No refresh has completed yet"
		}
		return notifier.FormatRunDigest(last.Summary, last.Profiles)
	case "/refresh":
		if _, err := s.Refresh(ctx); err != nil {
			if errors.Is(err, ErrCycleRunning) {
				return "A refresh is already running"
			}
			return fmt.Sprintf("❌ Refresh failed: %v", err)
		}
		// the digest was already sent by Refresh
		return ""
	case "/symbol":
		if len(fields) < 2 {
			return "Usage: /symbol TICKER"
		}
		return s.symbolReply(ctx, strings.ToUpper(fields[1]))
	case "/history":
		runs, err := s.Recorder.RecentRuns(10)
		if err != nil {
			return fmt.Sprintf("❌ Read history failed: %v", err)
		}
		return notifier.FormatRunHistory(runs)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) symbolReply(ctx context.Context, symbol string) string {
	if last := s.Last(); last != nil {
		for _, p := range last.Profiles {
			if p.Symbol == symbol {
				return notifier.FormatSymbol(p)
			}
		}
	}
	p, err := s.Collector.CollectSymbol(ctx, symbol)
	if err != nil {
		return fmt.Sprintf("❌ %s: %v", symbol, err)
	}
	return notifier.FormatSymbol(p)
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
