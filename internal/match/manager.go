package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quantik/internal/quantik"
	"quantik/internal/strategy"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchFinished = errors.New("match already finished")
	ErrMatchRunning  = errors.New("match already running")
	ErrIllegalMove   = errors.New("illegal move")
	ErrWrongSeat     = errors.New("decider seated for the wrong player")
)

// Manager keeps matches by ID. Different matches may be played concurrently;
// each owns its position and its deciders.
type Manager struct {
	mu      sync.RWMutex
	matches map[string]*Match
	log     zerolog.Logger
}

func NewManager(logger *zerolog.Logger) *Manager {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Manager{
		matches: make(map[string]*Match),
		log:     l.With().Str("component", "match").Logger(),
	}
}

// NewMatch seats a as PlayerA and b as PlayerB.
func (m *Manager) NewMatch(a, b strategy.Decider) (*Match, error) {
	if a.Player() != quantik.PlayerA || b.Player() != quantik.PlayerB {
		return nil, fmt.Errorf("%w: %s is %s, %s is %s", ErrWrongSeat, a.Name(), a.Player(), b.Name(), b.Player())
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	g := &Match{
		ID:        uuid.NewString(),
		Players:   [quantik.NumPlayers]strategy.Decider{a, b},
		Pos:       quantik.NewInitialPosition(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.matches[g.ID] = g
	return g, nil
}

func (m *Manager) Get(id string) (*Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return g, nil
}

func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[id]; !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	delete(m.matches, id)
	return nil
}

// IDs lists match IDs, oldest first.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*Match, 0, len(m.matches))
	for _, g := range m.matches {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	ids := make([]string, len(all))
	for i, g := range all {
		ids[i] = g.ID
	}
	return ids
}

func (m *Manager) begin(id string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if g.Result != nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchFinished, id)
	}
	if g.running {
		return nil, fmt.Errorf("%w: %s", ErrMatchRunning, id)
	}
	g.running = true
	return g, nil
}

func (m *Manager) finish(g *Match, res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.running = false
	g.UpdatedAt = time.Now()
	if res.Termination != Cancelled {
		g.Result = &res
	}
}

// Play alternates turns until the game ends. A side with no move loses, as
// does a side returning an illegal move; completing a line wins. Deciders
// receive copies of the board and inventory. ctx is checked between turns; a
// cancelled match keeps its position and can be resumed.
func (m *Manager) Play(ctx context.Context, id string) (Result, error) {
	g, err := m.begin(id)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	res := Result{Winner: quantik.NoPlayer}
	log := m.log.With().Str("match", g.ID).Logger()
	log.Debug().
		Str("a", g.Players[quantik.PlayerA].Name()).
		Str("b", g.Players[quantik.PlayerB].Name()).
		Msg("match started")

	pos := g.Pos
	for res.Termination == InProgress {
		if err := ctx.Err(); err != nil {
			res.Termination = Cancelled
			res.Turns = append([]Turn(nil), g.History...)
			res.Final = pos.Encode()
			res.Duration = time.Since(start)
			m.finish(g, res)
			return res, err
		}

		side := pos.SideToMove
		dec := g.Players[side]
		turnStart := time.Now()
		mv, ok := dec.Decide(pos.Board, pos.Inventory)
		elapsed := time.Since(turnStart)

		switch {
		case !ok:
			res.Winner, res.Termination = side.Opponent(), Forfeit
			log.Debug().Str("side", side.String()).Msg("no legal move")
		case !pos.Apply(mv):
			res.Winner, res.Termination = side.Opponent(), IllegalMove
			res.Err = fmt.Errorf("%w: %s (%s) played %s in %s", ErrIllegalMove, dec.Name(), side, mv, pos.Encode())
			log.Warn().Err(res.Err).Msg("illegal move")
		default:
			g.History = append(g.History, Turn{Player: side, Move: mv, Elapsed: elapsed})
			if pos.CompletesLine(mv.Square()) {
				res.Winner, res.Termination = side, Victory
			}
		}
	}

	res.Turns = append([]Turn(nil), g.History...)
	res.Final = pos.Encode()
	res.Duration = time.Since(start)
	m.finish(g, res)
	log.Info().
		Str("winner", res.Winner.String()).
		Str("by", res.Termination.String()).
		Int("plies", len(res.Turns)).
		Dur("elapsed", res.Duration).
		Msg("match finished")
	return res, nil
}
