package main

import (
	"encoding/json"
	"flag"
	"math/rand"
	"os"

	"quantik/internal/cli"
	"quantik/internal/engine"
	"quantik/internal/quantik"
)

// Fixture is one reachable position with its legal moves for the side to
// move, in canonical order.
type Fixture struct {
	Position    string   `json:"position"`
	Side        string   `json:"side"`
	PiecesLeft  [2]int   `json:"piecesLeft"`
	Legal       []string `json:"legal"`
	WinningMove []string `json:"winning,omitempty"`
	Eval        int      `json:"eval"`
}

func fixtureOf(pos *quantik.Position) Fixture {
	legal := pos.LegalMoves(pos.SideToMove)
	f := Fixture{
		Position:   pos.Encode(),
		Side:       pos.SideToMove.String(),
		PiecesLeft: [2]int{pos.Inventory.Total(quantik.PlayerA), pos.Inventory.Total(quantik.PlayerB)},
		Legal:      make([]string, len(legal)),
		Eval:       engine.Evaluate(pos, pos.SideToMove),
	}
	for i, mv := range legal {
		f.Legal[i] = mv.String()
	}
	for _, mv := range engine.WinningMoves(pos, pos.SideToMove) {
		f.WinningMove = append(f.WinningMove, mv.String())
	}
	return f
}

// walk records every position of one random game.
func walk(rng *rand.Rand) []Fixture {
	var out []Fixture
	pos := quantik.NewInitialPosition()
	for {
		out = append(out, fixtureOf(pos))
		legal := pos.LegalMoves(pos.SideToMove)
		if len(legal) == 0 {
			return out
		}
		mv := legal[rng.Intn(len(legal))]
		pos.Apply(mv)
		if pos.CompletesLine(mv.Square()) {
			return out
		}
	}
}

func main() {
	games := flag.Int("games", 10, "number of random games")
	seed := flag.Int64("seed", 1, "random seed")
	outPath := flag.String("out", "legal_moves_fixtures.json", "output file")
	logLevel := flag.String("log-level", cli.GetEnv(cli.LogLevelEnv, "info"), "log level")
	flag.Parse()

	logger := cli.NewLogger(os.Stderr, *logLevel)
	rng := rand.New(rand.NewSource(*seed))

	var fixtures []Fixture
	for g := 0; g < *games; g++ {
		fixtures = append(fixtures, walk(rng)...)
	}

	data, err := json.MarshalIndent(fixtures, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("encode fixtures")
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", *outPath).Msg("write fixtures")
	}
	logger.Info().Int("fixtures", len(fixtures)).Int("games", *games).Str("path", *outPath).Msg("generated")
}
