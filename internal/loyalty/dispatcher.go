package loyalty

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DispatcherConfig holds configuration for the dispatcher.
type DispatcherConfig struct {
	QueueSize int           // Buffered credits before Report starts dropping
	Timeout   time.Duration // Per-credit delivery deadline
}

// DefaultDispatcherConfig returns sensible defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize: 256,
		Timeout:   5 * time.Second,
	}
}

// Dispatcher delivers credits to a sink on a background goroutine so the
// game loop never waits on a ledger.
type Dispatcher struct {
	config DispatcherConfig
	sink   Sink
	logger *log.Logger

	queue chan Credit
	done  chan struct{}
	wg    sync.WaitGroup

	// mu orders enqueues before Stop closes done, so run drains every
	// credit that made it into the queue.
	mu      sync.RWMutex
	stopped bool

	delivered atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// NewDispatcher creates a dispatcher. Call Start before reporting.
func NewDispatcher(cfg DispatcherConfig, sink Sink, logger *log.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDispatcherConfig().Timeout
	}
	if logger == nil {
		logger = log.Default().WithPrefix("loyalty")
	}
	return &Dispatcher{
		config: cfg,
		sink:   sink,
		logger: logger,
		queue:  make(chan Credit, cfg.QueueSize),
		done:   make(chan struct{}),
	}
}

// Start begins background delivery.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop delivers whatever is still queued, then shuts down.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.done)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Report queues a credit. It never blocks: when the queue is full or the
// dispatcher is stopped the credit is dropped and counted.
func (d *Dispatcher) Report(c Credit) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.dropped.Add(1)
		return
	}

	select {
	case d.queue <- c:
	default:
		d.dropped.Add(1)
		d.logger.Warn("credit dropped, queue full", "session", c.SessionID, "pass", c.Pass)
	}
}

// Stats returns delivered, dropped and failed counts.
func (d *Dispatcher) Stats() (delivered, dropped, failed int64) {
	return d.delivered.Load(), d.dropped.Load(), d.failed.Load()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case c := <-d.queue:
			d.deliver(c)
		case <-d.done:
			for {
				select {
				case c := <-d.queue:
					d.deliver(c)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(c Credit) {
	if d.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
	defer cancel()

	if err := d.sink.Credit(ctx, c); err != nil {
		d.failed.Add(1)
		d.logger.Error("credit delivery failed", "session", c.SessionID, "pass", c.Pass, "err", err)
		return
	}
	d.delivered.Add(1)
}
