package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"quantik/internal/cli"
	"quantik/internal/engine"
	"quantik/internal/quantik"
)

func main() {
	notation := flag.String("pos", "", "position in text notation (default: empty board)")
	depth := flag.Int("depth", 0, "depth ceiling, 0 = adapt to game progress")
	moveTime := flag.Duration("time", 2*time.Second, "time budget for the decision")
	listMoves := flag.Bool("moves", false, "print every legal move")
	logLevel := flag.String("log-level", cli.GetEnv(cli.LogLevelEnv, "debug"), "log level")
	flag.Parse()

	logger := cli.NewLogger(os.Stderr, *logLevel)

	pos := quantik.NewInitialPosition()
	if *notation != "" {
		p, err := quantik.DecodePosition(*notation)
		if err != nil {
			logger.Fatal().Err(err).Str("pos", *notation).Msg("cannot parse position")
		}
		pos = p
	}

	out := termenv.NewOutput(os.Stdout)
	fmt.Println("Notation:", pos.Encode())
	fmt.Print(render(out, pos))
	fmt.Println("To move:", pos.SideToMove)

	legal := pos.LegalMoves(pos.SideToMove)
	fmt.Println("Legal moves:", len(legal))
	if *listMoves {
		names := make([]string, len(legal))
		for i, mv := range legal {
			names[i] = mv.String()
		}
		fmt.Println(" ", strings.Join(names, " "))
	}

	for _, pl := range []quantik.Player{quantik.PlayerA, quantik.PlayerB} {
		th := engine.FindThreats(pos, pl)
		fmt.Printf("Threats %s: %d immediate, %d developing", pl, len(th.Immediate), len(th.Developing))
		for _, t := range th.Immediate {
			fmt.Printf(" [%s %d at %v]", quantik.LineKindOf(t.Line), t.Line, t.Vacancies())
		}
		fmt.Println()
		fmt.Printf("Eval %s: %d\n", pl, engine.Evaluate(pos, pl))
	}

	e := engine.NewEngine(engine.Config{MaxDepth: *depth, TimeLimit: *moveTime, Logger: &logger})
	d := e.DecidePosition(pos)
	if !d.Found {
		fmt.Println("Decision: no legal move")
		return
	}
	fmt.Printf("Decision: %v (%s) in %v\n", d.Move, d.Phase, d.Elapsed.Round(time.Microsecond))
	if d.Search != nil {
		for _, it := range d.Search.Iterations {
			fmt.Printf("  depth %2d  score %7d  move %-12v nodes %9d  %v\n", it.Depth, it.Score, it.Move, it.Nodes, it.Elapsed.Round(time.Microsecond))
		}
		fmt.Printf("  pv: %v\n", d.Search.PV)
	}
}

// render draws the board with player A in one colour and player B in another.
func render(out *termenv.Output, pos *quantik.Position) string {
	colA := out.Color("#E88388")
	colB := out.Color("#71BEF2")
	var sb strings.Builder
	sb.WriteString("  a b c d\n")
	for r := 0; r < quantik.Rows; r++ {
		fmt.Fprintf(&sb, "%d", r+1)
		for c := 0; c < quantik.Cols; c++ {
			pc := pos.Board.At(r, c)
			ch := string(quantik.PieceRune(pc))
			sb.WriteByte(' ')
			switch {
			case pc.Empty():
				sb.WriteString(out.String(ch).Faint().String())
			case pc.Player() == quantik.PlayerA:
				sb.WriteString(out.String(ch).Foreground(colA).Bold().String())
			default:
				sb.WriteString(out.String(ch).Foreground(colB).Bold().String())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
