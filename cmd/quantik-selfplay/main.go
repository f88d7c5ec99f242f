package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"quantik/internal/cli"
	"quantik/internal/engine"
	"quantik/internal/match"
	"quantik/internal/mcts"
	"quantik/internal/quantik"
	"quantik/internal/strategy"
)

type seat struct {
	label string
	kind  string
}

type tally struct {
	mu     sync.Mutex
	wins   map[string]int
	byTerm map[match.Termination]int
	plies  int
	games  int
}

func (t *tally) add(winner string, res match.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wins[winner]++
	t.byTerm[res.Termination]++
	t.plies += len(res.Turns)
	t.games++
}

func main() {
	games := flag.Int("games", cli.GetEnvInt("QUANTIK_GAMES", 20), "number of games to play")
	kindA := flag.String("a", "minimax", "first strategy (minimax, mcts, greedy, random)")
	kindB := flag.String("b", "mcts", "second strategy")
	depth := flag.Int("depth", 0, "minimax depth ceiling, 0 = adapt to game progress")
	moveTime := flag.Duration("time", 500*time.Millisecond, "time budget per move")
	sims := flag.Int("mcts-sims", 4000, "MCTS simulations per move")
	threads := flag.Int("mcts-threads", 1, "MCTS workers per move")
	parallel := flag.Int("parallel", 4, "games played at once")
	seed := flag.Int64("seed", 1, "base seed; game g uses seed+g")
	logLevel := flag.String("log-level", cli.GetEnv(cli.LogLevelEnv, "info"), "log level")
	pprofAddr := flag.String("pprof", "", "serve pprof on this address")
	flag.Parse()

	logger := cli.NewLogger(os.Stderr, *logLevel)

	if *pprofAddr != "" {
		go func() {
			logger.Info().Str("addr", *pprofAddr).Msg("pprof listening")
			if err := http.ListenAndServe(*pprofAddr, nil); err != nil {
				logger.Error().Err(err).Msg("pprof failed")
			}
		}()
	}

	for _, k := range []string{*kindA, *kindB} {
		if _, err := strategy.New(k, quantik.PlayerA, strategy.Options{}); err != nil {
			logger.Fatal().Err(err).Msg("bad strategy")
		}
	}

	params := mcts.DefaultParams()
	params.Simulations = *sims
	params.NumThreads = *threads
	params.MaxTime = *moveTime
	opts := strategy.Options{
		Engine: engine.Config{MaxDepth: *depth, TimeLimit: *moveTime},
		MCTS:   params,
		Logger: &logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	first := seat{label: "1:" + *kindA, kind: *kindA}
	second := seat{label: "2:" + *kindB, kind: *kindB}
	t := &tally{wins: make(map[string]int), byTerm: make(map[match.Termination]int)}
	mgr := match.NewManager(&logger)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for i := 0; i < *games; i++ {
		// alternate who moves first
		a, b := first, second
		if i%2 == 1 {
			a, b = second, first
		}
		g.Go(func() error {
			return playOne(gctx, mgr, logger, opts, *seed+int64(i), a, b, t)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("selfplay stopped")
	}

	fmt.Printf("\n=== Final Score (%d games, %v) ===\n", t.games, time.Since(start).Round(time.Millisecond))
	fmt.Printf("%s: %d\n", first.label, t.wins[first.label])
	fmt.Printf("%s: %d\n", second.label, t.wins[second.label])
	for _, term := range []match.Termination{match.Victory, match.Forfeit, match.IllegalMove} {
		fmt.Printf("by %s: %d\n", term, t.byTerm[term])
	}
	if t.games > 0 {
		fmt.Printf("average length: %.1f plies\n", float64(t.plies)/float64(t.games))
	}
}

func playOne(ctx context.Context, mgr *match.Manager, logger zerolog.Logger, opts strategy.Options, seed int64, a, b seat, t *tally) error {
	opts.Seed = seed
	da, err := strategy.New(a.kind, quantik.PlayerA, opts)
	if err != nil {
		return err
	}
	opts.Seed = seed + 1<<32
	db, err := strategy.New(b.kind, quantik.PlayerB, opts)
	if err != nil {
		return err
	}
	m, err := mgr.NewMatch(da, db)
	if err != nil {
		return err
	}
	defer mgr.Remove(m.ID)

	res, err := mgr.Play(ctx, m.ID)
	if err != nil {
		return err
	}

	winner := a.label
	if res.Winner == quantik.PlayerB {
		winner = b.label
	}
	t.add(winner, res)
	logger.Info().
		Str("a", a.label).
		Str("b", b.label).
		Str("winner", winner).
		Str("by", res.Termination.String()).
		Str("final", res.Final).
		Msg("game over")
	return nil
}
