package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/adlens/internal/pkg/distlock"
	"github.com/ignite/adlens/internal/service/schedule"
)

const (
	// DefaultSchedulerPollInterval is how often to check for due reports.
	DefaultSchedulerPollInterval = time.Minute

	// schedulerLockKey serializes ticks across worker replicas.
	schedulerLockKey = "report-scheduler"

	// DefaultTickTimeout bounds one tick. Each due report makes several
	// Graph calls and possibly a model call, so this is generous.
	DefaultTickTimeout = 10 * time.Minute
)

// DueRunner runs every due schedule once. *schedule.Service satisfies it.
type DueRunner interface {
	RunDue(ctx context.Context) (*schedule.RunSummary, error)
}

// SchedulerObserver receives tick and delivery outcomes.
type SchedulerObserver interface {
	ObserveSchedulerTick(result string)
	ObserveDelivery(status string)
}

// ReportScheduler polls for due scheduled reports. Only one replica runs a
// tick at a time; the others skip until the next poll.
type ReportScheduler struct {
	runner       DueRunner
	db           *sql.DB
	redisClient  *redis.Client // optional; nil falls back to PG advisory locks
	workerID     string
	pollInterval time.Duration
	tickTimeout  time.Duration
	observer     SchedulerObserver

	// Stats
	ticks     int64
	delivered int64
	failed    int64

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

// NewReportScheduler creates a scheduler. db backs the fallback lock.
func NewReportScheduler(runner DueRunner, db *sql.DB) *ReportScheduler {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "adlens-worker"
	}
	return &ReportScheduler{
		runner:       runner,
		db:           db,
		workerID:     fmt.Sprintf("scheduler-%s-%d", hostname, time.Now().UnixNano()%10000),
		pollInterval: DefaultSchedulerPollInterval,
		tickTimeout:  DefaultTickTimeout,
	}
}

// SetRedisClient sets the Redis client for distributed locking.
func (rs *ReportScheduler) SetRedisClient(client *redis.Client) {
	rs.redisClient = client
}

// SetPollInterval overrides the poll interval. Non-positive values are ignored.
func (rs *ReportScheduler) SetPollInterval(d time.Duration) {
	if d > 0 {
		rs.pollInterval = d
	}
}

// SetTickTimeout overrides the per-tick deadline. Non-positive values are ignored.
func (rs *ReportScheduler) SetTickTimeout(d time.Duration) {
	if d > 0 {
		rs.tickTimeout = d
	}
}

// SetObserver registers a metrics observer.
func (rs *ReportScheduler) SetObserver(o SchedulerObserver) {
	rs.observer = o
}

// Start begins the polling loop. The first tick runs immediately.
func (rs *ReportScheduler) Start() error {
	rs.mu.Lock()
	if rs.running {
		rs.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	rs.running = true
	rs.ctx, rs.cancel = context.WithCancel(context.Background())
	rs.mu.Unlock()

	log.Printf("[ReportScheduler] %s starting with poll interval: %v", rs.workerID, rs.pollInterval)

	rs.wg.Add(1)
	go rs.loop()
	return nil
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	if !rs.running {
		rs.mu.Unlock()
		return
	}
	rs.running = false
	rs.mu.Unlock()

	log.Printf("[ReportScheduler] Stopping...")
	rs.cancel()
	rs.wg.Wait()
	log.Printf("[ReportScheduler] Stopped. Ticks: %d, delivered: %d, failed: %d",
		atomic.LoadInt64(&rs.ticks), atomic.LoadInt64(&rs.delivered), atomic.LoadInt64(&rs.failed))
}

// IsRunning reports whether the loop is active.
func (rs *ReportScheduler) IsRunning() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.running
}

func (rs *ReportScheduler) loop() {
	defer rs.wg.Done()

	rs.tick(rs.ctx)

	ticker := time.NewTicker(rs.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rs.ctx.Done():
			return
		case <-ticker.C:
			rs.tick(rs.ctx)
		}
	}
}

func (rs *ReportScheduler) tick(parent context.Context) {
	if _, err := rs.RunOnce(parent); err != nil && !errors.Is(err, distlock.ErrNotAcquired) {
		log.Printf("[ReportScheduler] Tick failed: %v", err)
	}
}

// RunOnce runs one locked tick. It returns distlock.ErrNotAcquired when
// another replica holds the lock.
func (rs *ReportScheduler) RunOnce(parent context.Context) (*schedule.RunSummary, error) {
	ctx, cancel := context.WithTimeout(parent, rs.tickTimeout)
	defer cancel()

	atomic.AddInt64(&rs.ticks, 1)
	lock := distlock.NewLock(rs.redisClient, rs.db, schedulerLockKey, rs.tickTimeout)

	var summary *schedule.RunSummary
	err := distlock.Run(ctx, lock, func(ctx context.Context) error {
		var err error
		summary, err = rs.runner.RunDue(ctx)
		return err
	})
	switch {
	case errors.Is(err, distlock.ErrNotAcquired):
		log.Printf("[ReportScheduler] Another worker holds the scheduler lock, skipping tick")
		rs.observeTick("locked")
		return nil, err
	case err != nil:
		rs.observeTick("error")
		return nil, err
	}

	rs.observeTick("ok")
	for _, r := range summary.Results {
		if r.Error == "" {
			atomic.AddInt64(&rs.delivered, 1)
		} else {
			atomic.AddInt64(&rs.failed, 1)
		}
		if rs.observer != nil {
			rs.observer.ObserveDelivery(string(r.Status))
		}
	}
	if summary.Processed > 0 {
		log.Printf("[ReportScheduler] Processed %d scheduled reports", summary.Processed)
	}
	return summary, nil
}

func (rs *ReportScheduler) observeTick(result string) {
	if rs.observer != nil {
		rs.observer.ObserveSchedulerTick(result)
	}
}
