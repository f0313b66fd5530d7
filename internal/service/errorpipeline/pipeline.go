package errorpipeline

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/Notifuse/notifuse/internal/domain"
	"github.com/Notifuse/notifuse/internal/service/queue"
	"github.com/Notifuse/notifuse/pkg/cache"
	"github.com/Notifuse/notifuse/pkg/logger"
)

// FixFunc attempts to repair the error described by attempt.Error, returning
// nil on success. It is supplied by the caller (the sandbox/build runner);
// this package only owns scheduling, retries, and deduplication.
type FixFunc func(ctx context.Context, classified *domain.ClassifiedError) error

// Config tunes the execution loop. Zero values fall back to the spec's
// defaults.
type Config struct {
	// MaxConcurrentFixes bounds concurrent in-flight repair attempts per
	// session. Default 2.
	MaxConcurrentFixes int
	// MaxRetries bounds attempts per distinct error. Default 3.
	MaxRetries int
	// Backoff computes the delay before a given retry attempt. Defaults to
	// queue.DefaultBackoff; set to queue.ExponentialBackoff(base) for the
	// exponential mode.
	Backoff queue.BackoffSchedule
	// DedupTTL is how long a successfully-fixed error's content hash is
	// remembered, so a recurrence within the window is ignored. Default 60s.
	DedupTTL time.Duration
}

// DefaultConfig returns the spec's defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentFixes: 2,
		MaxRetries:         3,
		Backoff:            queue.DefaultBackoff,
		DedupTTL:           60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrentFixes <= 0 {
		c.MaxConcurrentFixes = DefaultConfig().MaxConcurrentFixes
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultConfig().MaxRetries
	}
	if c.Backoff == nil {
		c.Backoff = DefaultConfig().Backoff
	}
	if c.DedupTTL <= 0 {
		c.DedupTTL = DefaultConfig().DedupTTL
	}
	return c
}

// attempt is one queued repair job.
type attempt struct {
	classified *domain.ClassifiedError
	tries      int
	index      int // heap bookkeeping
}

// priorityQueue orders attempts auto-fixable first, then by severity
// (critical > high > medium > low), then by confidence descending — the
// ordering the spec's execution loop prescribes.
type priorityQueue []*attempt

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i].classified, pq[j].classified
	if a.Fixable != b.Fixable {
		return a.Fixable // fixable sorts first
	}
	if rank := severityRank(a.Severity); rank != severityRank(b.Severity) {
		return rank < severityRank(b.Severity)
	}
	return a.Confidence > b.Confidence
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	a := x.(*attempt)
	a.index = len(*pq)
	*pq = append(*pq, a)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

func severityRank(s domain.ErrorSeverity) int {
	switch s {
	case domain.SeverityCritical:
		return 0
	case domain.SeverityHigh:
		return 1
	case domain.SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Pipeline is the ErrorPipeline execution loop: a classifier feeding a
// bounded, prioritized, concurrent repair queue with deduplication of
// already-fixed errors.
type Pipeline struct {
	classifier *Classifier
	fix        FixFunc
	cfg        Config
	dedup      cache.Cache
	log        logger.Logger

	mu       sync.Mutex
	pq       priorityQueue
	wake     chan struct{}
	inflight int

	cancel context.CancelFunc
}

// New builds a Pipeline. fix is invoked for every queued attempt that
// survives classification and dedup; dedup is typically a
// cache.NewInMemoryCache(time.Minute), but any cache.Cache works (the
// interface is what ErrorPipeline depends on, not the concrete type).
func New(fix FixFunc, dedup cache.Cache, cfg Config, log logger.Logger) *Pipeline {
	return &Pipeline{
		classifier: NewClassifier(),
		fix:        fix,
		cfg:        cfg.withDefaults(),
		dedup:      dedup,
		log:        log,
		wake:       make(chan struct{}, 1),
	}
}

// Submit classifies errText and, unless its content hash is in the
// dedup set, enqueues it for repair.
func (p *Pipeline) Submit(errText string) *domain.ClassifiedError {
	classified := p.classifier.Classify(errText)

	if _, found := p.dedup.Get(classified.ContentHash); found {
		p.log.WithField("content_hash", classified.ContentHash).Debug("dropping duplicate error within dedup window")
		return classified
	}
	if !classified.Fixable {
		p.log.WithFields(map[string]interface{}{
			"kind":     string(classified.Kind),
			"strategy": string(classified.FixStrategy),
		}).Warn("classified error is not auto-fixable")
		return classified
	}

	p.mu.Lock()
	heap.Push(&p.pq, &attempt{classified: classified})
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}

	return classified
}

// Run drains the queue until ctx is cancelled or Abort is called,
// dispatching up to MaxConcurrentFixes attempts at a time.
func (p *Pipeline) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			p.drain(ctx)
		}
	}
}

// Abort drains the queue and cancels the running context, stopping any
// further dispatch immediately (in-flight attempts still observe ctx
// cancellation on their next check).
func (p *Pipeline) Abort() {
	p.mu.Lock()
	p.pq = nil
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (p *Pipeline) drain(ctx context.Context) {
	var wg sync.WaitGroup
	for {
		p.mu.Lock()
		if ctx.Err() != nil || p.inflight >= p.cfg.MaxConcurrentFixes || p.pq.Len() == 0 {
			p.mu.Unlock()
			break
		}
		next := heap.Pop(&p.pq).(*attempt)
		p.inflight++
		p.mu.Unlock()

		wg.Add(1)
		go func(a *attempt) {
			defer wg.Done()
			p.runAttempt(ctx, a)
		}(next)
	}
	wg.Wait()
}

func (p *Pipeline) runAttempt(ctx context.Context, a *attempt) {
	defer func() {
		p.mu.Lock()
		p.inflight--
		p.mu.Unlock()
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}()

	a.tries++

	if ctx.Err() != nil {
		return
	}

	err := p.fix(ctx, a.classified)
	if err == nil {
		p.dedup.Set(a.classified.ContentHash, true, p.cfg.DedupTTL)
		p.log.WithFields(map[string]interface{}{
			"kind":     string(a.classified.Kind),
			"strategy": string(a.classified.FixStrategy),
			"tries":    a.tries,
		}).Info("auto-fix succeeded")
		return
	}

	if a.tries >= p.cfg.MaxRetries {
		p.log.WithFields(map[string]interface{}{
			"kind":  string(a.classified.Kind),
			"tries": a.tries,
			"error": err.Error(),
		}).Error("auto-fix exhausted retries")
		return
	}

	delay := p.cfg.Backoff(a.tries)
	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.mu.Lock()
			heap.Push(&p.pq, a)
			p.mu.Unlock()
			select {
			case p.wake <- struct{}{}:
			default:
			}
		}
	}()
}
