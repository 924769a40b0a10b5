package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/loyalty"
)

// CreditReporter receives per-pass loyalty credits. loyalty.Dispatcher
// satisfies it. Report must not block.
type CreditReporter interface {
	Report(c loyalty.Credit)
}

// PassReport describes one matching pass of a cascade.
type PassReport struct {
	Level       int
	Combo       int
	Matched     int
	Points      int
	Fever       bool
	Removed     engine.Tally
	Spawn       *engine.Spawn
	Detonations []engine.Detonation
}

// LevelReport describes a cleared level.
type LevelReport struct {
	Level          int
	Score          int
	Bonus          int
	MovesRemaining int
	Reward         Item
}

// Summary is the final state of a finished game.
type Summary struct {
	SessionID string
	Player    string
	Score     int
	Level     int
	Crushed   engine.Tally
	Swaps     int
	Passes    int
}

// Hooks are called synchronously from inside the session. They must not
// call back into the session.
type Hooks struct {
	OnPass     func(PassReport)
	OnLevelUp  func(LevelReport)
	OnGameOver func(Summary)
}

// Options configures a new session.
type Options struct {
	ID         string
	Player     string
	Config     config.GameConfig
	Seed       int64         // used when Source is nil; 0 means time-based
	Source     engine.Source // optional explicit randomness
	StartLevel int           // defaults to 1
	Credits    CreditReporter
	Hooks      Hooks
	Logger     *log.Logger
}

// SwapResult tells the caller what a swap request did.
type SwapResult int

const (
	SwapIgnored  SwapResult = iota // wrong phase or invalid positions
	SwapRejected                   // no match, tiles swap back after a delay
	SwapAccepted                   // a move was spent and a cascade started
)

// chain holds what a cascade needs to remember from its start.
type chain struct {
	player bool // started by a player swap
	fever  bool // fever was active when the chain started
	boost  bool // score boost was active when the chain started
}

// Session is one player's game. All exported methods are safe for
// concurrent use; timed steps only run inside Advance or Flush.
type Session struct {
	mu sync.Mutex

	id      string
	player  string
	cfg     config.GameConfig
	rules   engine.Rules
	dealer  *engine.Dealer
	sched   *Scheduler
	credits CreditReporter
	hooks   Hooks
	logger  *log.Logger

	startLevel int

	grid     *engine.Grid
	phase    Phase
	selected *engine.Position
	matched  engine.PositionSet
	blasts   []engine.Detonation

	score      int
	totalScore int
	moves      int
	level      int
	combo      int
	fever      int
	boost      int
	hintSwaps  int
	lastBonus  int
	swaps      int
	passes     int
	reshuffles int
	crushed    engine.Tally

	inventory [itemCount]int
	cooldowns [skillCount]int

	chain chain
}

// New creates a session at the start level with a fresh board.
func New(opts Options) *Session {
	src := opts.Source
	if src == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		src = rand.New(rand.NewSource(seed))
	}
	if opts.StartLevel < 1 {
		opts.StartLevel = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("session")
	}

	s := &Session{
		id:         opts.ID,
		player:     opts.Player,
		cfg:        opts.Config,
		rules:      engine.Rules{RunThreeChance: opts.Config.Specials.RunThreeChance, UpgradeChance: opts.Config.Specials.UpgradeChance},
		dealer:     engine.NewDealer(src, opts.Config.Board.Categories),
		sched:      NewScheduler(),
		credits:    opts.Credits,
		hooks:      opts.Hooks,
		logger:     logger,
		startLevel: opts.StartLevel,
	}
	s.reset()
	return s
}

// reset replaces all game state with a fresh level-one game.
func (s *Session) reset() {
	s.sched.Clear()
	s.level = s.startLevel
	s.totalScore = 0
	s.swaps = 0
	s.passes = 0
	s.reshuffles = 0
	s.crushed = engine.Tally{}
	s.fever = 0
	s.boost = 0
	s.hintSwaps = 0
	for i := range s.inventory {
		s.inventory[i] = min(s.cfg.Items.StartStock, s.cfg.Items.MaxStack)
	}
	s.cooldowns = [skillCount]int{}
	s.startLevelBoard()
	s.logger.Debug("new game", "session", s.id, "level", s.level)
}

// startLevelBoard deals a fresh board and resets the per-level counters.
func (s *Session) startLevelBoard() {
	s.grid = engine.FillWithoutMatches(s.cfg.Board.Rows, s.cfg.Board.Cols, s.dealer)
	s.score = 0
	s.moves = s.cfg.Level.MovesPerLevel
	s.combo = 0
	s.lastBonus = 0
	s.selected = nil
	s.matched = nil
	s.blasts = nil
	s.phase = PhaseIdle
	s.startCheck()
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Player returns the player name.
func (s *Session) Player() string {
	return s.player
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// NewGame replaces the session state with a fresh game. It is accepted in
// Idle, Selected and GameOver and ignored while a cascade or level
// transition is running.
func (s *Session) NewGame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.phase.acceptsInput() && s.phase != PhaseGameOver {
		return false
	}
	s.reset()
	return true
}

// SelectCell chooses a tile. A second selection adjacent to the first
// attempts a swap; any other selection replaces the first.
func (s *Session) SelectCell(p engine.Position) SwapResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.phase.acceptsInput() || !s.grid.InBounds(p) {
		return SwapIgnored
	}
	if s.phase == PhaseSelected && s.selected != nil && s.selected.Adjacent(p) {
		return s.trySwap(*s.selected, p)
	}
	sel := p
	s.selected = &sel
	s.phase = PhaseSelected
	return SwapIgnored
}

// Deselect clears the current selection.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSelected {
		s.selected = nil
		s.phase = PhaseIdle
	}
}

// TrySwap attempts to swap two adjacent tiles.
func (s *Session) TrySwap(from, to engine.Position) SwapResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trySwap(from, to)
}

func (s *Session) trySwap(from, to engine.Position) SwapResult {
	if !s.phase.acceptsInput() {
		return SwapIgnored
	}
	if !s.grid.InBounds(from) || !s.grid.InBounds(to) || !from.Adjacent(to) {
		return SwapIgnored
	}

	s.selected = nil
	swapped := s.grid.Swapped(from, to)
	s.grid = swapped
	s.phase = PhaseAnimating

	if !engine.HasMatch(swapped) {
		s.logger.Debug("swap rejected", "session", s.id, "from", from, "to", to)
		s.sched.After(s.cfg.Timing.SwapReject, func() {
			s.grid.Swap(from, to)
			s.phase = PhaseIdle
		})
		return SwapRejected
	}

	s.moves--
	s.combo = 0
	s.chain = chain{player: true, fever: s.fever > 0, boost: s.boost > 0}
	s.logger.Debug("swap accepted", "session", s.id, "from", from, "to", to, "moves", s.moves)
	s.sched.After(0, s.detect)
	return SwapAccepted
}

// Advance moves the session clock forward and runs due cascade steps.
func (s *Session) Advance(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.Advance(dt)
}

// Flush runs every pending cascade step immediately.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.Flush()
}

// Busy reports whether timed steps are pending.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Pending() > 0
}
