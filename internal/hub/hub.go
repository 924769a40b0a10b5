// Package hub keeps the live sessions of a server: it creates them with
// per-player settings, advances their cascade clocks from one ticker,
// expires idle ones and records finished games in the background.
package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/session"
)

// ErrFull is returned when the session limit is reached.
var ErrFull = errors.New("hub: session limit reached")

// Config holds configuration for the hub.
type Config struct {
	TickRate      int           // cascade clock updates per second
	IdleTimeout   time.Duration // sessions untouched this long are dropped
	CleanupPeriod time.Duration // how often idle sessions are swept
	MaxSessions   int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickRate:      20,
		IdleTimeout:   30 * time.Minute,
		CleanupPeriod: time.Minute,
		MaxSessions:   1000,
	}
}

type entry struct {
	sess     *session.Session
	lastSeen time.Time
}

// Hub manages live sessions.
type Hub struct {
	cfg      Config
	game     config.GameConfig
	recorder *Recorder
	credits  session.CreditReporter
	logger   *log.Logger

	mu       sync.RWMutex
	sessions map[string]*entry

	results chan session.Summary
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New creates a hub. recorder and credits may be nil.
func New(cfg Config, game config.GameConfig, recorder *Recorder, credits session.CreditReporter, logger *log.Logger) *Hub {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultConfig().TickRate
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultConfig().CleanupPeriod
	}
	if logger == nil {
		logger = log.Default().WithPrefix("hub")
	}
	return &Hub{
		cfg:      cfg,
		game:     game,
		recorder: recorder,
		credits:  credits,
		logger:   logger,
		sessions: make(map[string]*entry),
		results:  make(chan session.Summary, 64),
		done:     make(chan struct{}),
	}
}

// Start begins ticking, cleanup and result recording.
func (h *Hub) Start() {
	h.wg.Add(3)
	go h.tickLoop()
	go h.cleanupLoop()
	go h.recordLoop()
}

// Stop shuts down the background loops. Pending results are recorded first.
func (h *Hub) Stop() {
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()
	})
}

// Create starts a session for the player with their character level
// applied to the skill gates.
func (h *Hub) Create(ctx context.Context, player string, seed int64) (*session.Session, error) {
	cfg := h.game
	cfg.Skills.CharacterLevel = h.recorder.CharacterLevel(ctx, player)

	id := uuid.NewString()
	s := session.New(session.Options{
		ID:      id,
		Player:  player,
		Config:  cfg,
		Seed:    seed,
		Credits: h.credits,
		Logger:  h.logger.WithPrefix("session"),
		Hooks: session.Hooks{
			OnGameOver: h.enqueueResult,
		},
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg.MaxSessions > 0 && len(h.sessions) >= h.cfg.MaxSessions {
		return nil, ErrFull
	}
	h.sessions[id] = &entry{sess: s, lastSeen: time.Now()}
	h.logger.Debug("session created", "id", id, "player", player, "character_level", cfg.Skills.CharacterLevel)
	return s, nil
}

// Get returns a live session and marks it as recently used.
func (h *Hub) Get(id string) (*session.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.sess, true
}

// Remove drops a session.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Tick advances every live session by dt.
func (h *Hub) Tick(dt time.Duration) {
	h.mu.RLock()
	live := make([]*session.Session, 0, len(h.sessions))
	for _, e := range h.sessions {
		live = append(live, e.sess)
	}
	h.mu.RUnlock()

	for _, s := range live {
		s.Advance(dt)
	}
}

// enqueueResult runs inside a session hook, so it must not block or call
// back into the session.
func (h *Hub) enqueueResult(sum session.Summary) {
	select {
	case h.results <- sum:
	default:
		h.logger.Warn("result queue full, dropping", "player", sum.Player, "score", sum.Score)
	}
}

func (h *Hub) tickLoop() {
	defer h.wg.Done()
	interval := time.Second / time.Duration(h.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.Tick(interval)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) cleanupLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.expireIdle(time.Now())
		case <-h.done:
			return
		}
	}
}

func (h *Hub) expireIdle(now time.Time) int {
	if h.cfg.IdleTimeout <= 0 {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for id, e := range h.sessions {
		if now.Sub(e.lastSeen) > h.cfg.IdleTimeout {
			delete(h.sessions, id)
			n++
		}
	}
	if n > 0 {
		h.logger.Info("expired idle sessions", "count", n, "live", len(h.sessions))
	}
	return n
}

func (h *Hub) recordLoop() {
	defer h.wg.Done()
	for {
		select {
		case sum := <-h.results:
			h.record(sum)
		case <-h.done:
			for {
				select {
				case sum := <-h.results:
					h.record(sum)
				default:
					return
				}
			}
		}
	}
}

func (h *Hub) record(sum session.Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	//nolint:errcheck // Recorder logs its own failures
	h.recorder.Record(ctx, sum)
}
