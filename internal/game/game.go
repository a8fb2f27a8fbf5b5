// Package game implements the Game aggregate (component H): the live
// position and move history built from a negotiated game summary, kept
// in sync as the protocol client exchanges moves.
package game

import (
	"fmt"
	"strings"

	"github.com/mogproject/mog-cli-archive/internal/record"
	"github.com/mogproject/mog-cli-archive/internal/shogi"
	"github.com/mogproject/mog-cli-archive/internal/summary"
)

// Game is the mutable state of one match: the board/hand position, the
// move history, and the identity of the side this client is playing.
type Game struct {
	ID        string
	MyTurn    shogi.Turn
	Condition *summary.Condition
	State     *shogi.State
	History   []record.HistoryEntry
}

// New builds a Game from a negotiated condition, parsing its verbatim
// Position block (§4.F) into the initial State and history.
func New(cond *summary.Condition) (*Game, error) {
	lines := strings.Split(cond.GameSummary.Position, "\n")
	parsed, err := record.Read(lines)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("game: empty position block")
	}

	return &Game{
		ID:        cond.GameSummary.GameID,
		MyTurn:    shogi.Turn(cond.GameSummary.YourTurn),
		Condition: cond,
		State:     parsed[0].State,
		History:   parsed[0].History,
	}, nil
}

// IsMyTurn reports whether it's this client's side to move.
func (g *Game) IsMyTurn() bool {
	return g.State.ToMove == g.MyTurn
}

// Apply advances the game by one move: for a normal move, capture
// whatever occupied the destination into the mover's hand (demoted to
// its unpromoted form), clear the origin, place the piece, and flip
// whose turn it is. Special moves (resignation, declared win, and the
// various automatic endings) only extend the history — they don't touch
// the board.
func (g *Game) Apply(mv *shogi.Move, elapsed *int) {
	if !mv.IsSpecial {
		captured := g.State.GetBoard(mv.To)
		if captured.Turn().Valid() {
			g.State.Set(shogi.HandPos, shogi.NewPiece(mv.Turn, shogi.Unpromote(captured.PieceType())))
		}
		g.State.Reset(mv.From, shogi.NewPiece(mv.Turn, mv.PieceType))
		g.State.Set(mv.To, shogi.NewPiece(mv.Turn, mv.PieceType))
		g.State.ToMove = mv.Turn.Flip()
	}
	g.History = append(g.History, record.HistoryEntry{Move: mv, Elapsed: elapsed})
}

// HistoryString renders the move history four entries per line, matching
// the source's history display, or "no history" if nothing has been
// played yet.
func (g *Game) HistoryString() string {
	if len(g.History) == 0 {
		return "no history"
	}
	const width = 4
	var b strings.Builder
	for i, h := range g.History {
		fmt.Fprintf(&b, "%03d: %s", i, h.Move.Raw)
		if (i+1)%width == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteString("    ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// String renders the full game banner: summary, time settings, position,
// and history, each section indented two spaces, in the same layout as
// the source's Game.__str__.
func (g *Game) String() string {
	s := g.Condition.GameSummary
	var b strings.Builder

	fmt.Fprintln(&b, "[Game Summary]")
	fmt.Fprintf(&b, "  Id                 : %s\n", g.ID)
	youPlus, youMinus := "", ""
	if g.MyTurn == shogi.Black {
		youPlus = " (You!)"
	}
	if g.MyTurn == shogi.White {
		youMinus = " (You!)"
	}
	fmt.Fprintf(&b, "  Name+              : %s%s\n", s.NamePlus, youPlus)
	fmt.Fprintf(&b, "  Name-              : %s%s\n", s.NameMinus, youMinus)
	fmt.Fprintf(&b, "  Rematch On Draw    : %s\n", s.RematchOnDraw)
	fmt.Fprintln(&b, "[Time Settings]")
	fmt.Fprintf(&b, "  Time Unit          : %s\n", s.Time.TimeUnit)
	fmt.Fprintf(&b, "  Total Time         : %s\n", s.Time.TotalTime)
	fmt.Fprintf(&b, "  Byoyomi            : %s\n", s.Time.Byoyomi)
	fmt.Fprintf(&b, "  Least Time Per Move: %s\n", s.Time.LeastTimePerMove)
	fmt.Fprintln(&b, "[Position]")
	for _, line := range strings.Split(g.State.String(), "\n") {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	fmt.Fprintln(&b, "[History]")
	for _, line := range strings.Split(g.HistoryString(), "\n") {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	return strings.TrimRight(b.String(), "\n")
}
