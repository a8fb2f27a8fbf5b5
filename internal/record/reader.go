// Package record reads a CSA-format shogi record: comments, a preset or
// explicit initial position, and a move/time history (component E of the
// protocol client).
//
// Protocol reference: http://www.computer-shogi.org/protocol/record_v21.html
package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mogproject/mog-cli-archive/internal/shogi"
)

var (
	reVersion  = regexp.MustCompile(`^V([0-9.]+)$`)
	rePreset   = regexp.MustCompile(`^PI(?:[1-9][1-9][A-Z]{2})*$`)
	reBoard    = regexp.MustCompile(`^P([1-9])(.{27})$`)
	rePiece    = regexp.MustCompile(`^P([+-])((?:[0-9]{2}[A-Z]{2})+)$`)
	reToMove   = regexp.MustCompile(`^([+-])$`)
	reMove     = regexp.MustCompile(`^([+-])([0-9]{2})([1-9][1-9])([A-Z]{2})$`)
	reSpecial  = regexp.MustCompile(`^[%#].*$`)
	reTime     = regexp.MustCompile(`^T([0-9]+)$`)
	rePresetXY = regexp.MustCompile(`[1-9][1-9][A-Z]{2}`)
)

// standardCounts is the total number of each piece type across the whole
// 40-piece set (both sides combined), used to resolve "00AL" ("all
// remaining pieces of this type go to this side's hand").
var standardCounts = map[shogi.PieceType]int{
	shogi.OU: 2, shogi.HI: 2, shogi.KA: 2, shogi.KI: 4,
	shogi.GI: 4, shogi.KE: 4, shogi.KY: 4, shogi.FU: 18,
}

// HistoryEntry is one event in a game's history: a normal move, a
// special move, or a standalone elapsed-time token attached to the move
// that preceded it.
type HistoryEntry struct {
	Move    *shogi.Move
	Elapsed *int
}

// ParsedGame is one game parsed out of a CSA record: every "'" comment
// line in input order, the record's version token, the initial position, and
// the move history.
type ParsedGame struct {
	Comments []string
	Version  string
	State    *shogi.State
	History  []HistoryEntry
}

// Read parses lines (a full CSA record, one physical line per entry) and
// returns the games it contains. Multi-game separators are not supported
// upstream of the CSA server this client talks to: the whole input is
// treated as a single game.
func Read(lines []string) ([]ParsedGame, error) {
	var comments []string
	var tokens []string

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\n")
		if strings.HasPrefix(line, "'") {
			comments = append(comments, line)
			continue
		}
		for _, stmt := range strings.Split(line, ",") {
			if strings.TrimSpace(stmt) != "" {
				tokens = append(tokens, stmt)
			}
		}
	}

	version := "1.0"
	for _, t := range tokens {
		if m := reVersion.FindStringSubmatch(t); m != nil {
			version = m[1]
			break
		}
	}

	state := shogi.NewState()
	placedCount := map[shogi.PieceType]int{}
	var history []HistoryEntry

	addPiece := func(pos shogi.Position, piece shogi.Piece) {
		state.Set(pos, piece)
		placedCount[piece.PieceType()]++
	}

	for _, t := range tokens {
		switch {
		case rePreset.MatchString(t):
			state.SetHirate()
			for _, pos := range state.BoardPositions() {
				placedCount[state.GetBoard(pos).PieceType()]++
			}
			for _, xy := range rePresetXY.FindAllString(t[2:], -1) {
				pos := shogi.Position(xy[0:2])
				pt := shogi.PieceType(xy[2:4])
				piece := state.GetBoard(pos)
				if piece.PieceType() == pt {
					state.Reset(pos, piece)
				}
			}

		case reBoard.MatchString(t):
			m := reBoard.FindStringSubmatch(t)
			rank := m[1][0]
			cells := m[2]
			for i := 0; i < 9; i++ {
				file := byte('9' - i)
				cell := cells[i*3 : i*3+3]
				turn := shogi.Turn(cell[0:1])
				if turn.Valid() {
					addPiece(shogi.NewPosition(file, rank), shogi.Piece(cell))
				}
			}

		case rePiece.MatchString(t):
			m := rePiece.FindStringSubmatch(t)
			turn := shogi.Turn(m[1])
			body := m[2]
			for i := 0; i < len(body); i += 4 {
				posStr := body[i : i+2]
				ptStr := shogi.PieceType(body[i+2 : i+4])
				if posStr == "00" && ptStr == "AL" {
					for _, pt := range shogi.HandPieceTypes {
						remaining := standardCounts[pt] - placedCount[pt]
						for k := 0; k < remaining; k++ {
							addPiece(shogi.HandPos, shogi.NewPiece(turn, pt))
						}
					}
					continue
				}
				addPiece(shogi.Position(posStr), shogi.NewPiece(turn, ptStr))
			}

		case reToMove.MatchString(t):
			state.ToMove = shogi.Turn(t)

		case reMove.MatchString(t):
			mv, err := shogi.ParseMove(t, nil)
			if err != nil {
				return nil, fmt.Errorf("record: %w", err)
			}
			history = append(history, HistoryEntry{Move: mv})

		case reSpecial.MatchString(t):
			mv, err := shogi.ParseMove(t, nil)
			if err != nil {
				return nil, fmt.Errorf("record: %w", err)
			}
			history = append(history, HistoryEntry{Move: mv})

		case reTime.MatchString(t):
			m := reTime.FindStringSubmatch(t)
			secs, _ := strconv.Atoi(m[1])
			if len(history) > 0 {
				history[len(history)-1].Elapsed = &secs
			}

		default:
			// Unrecognized tokens (game info like N+/N-/$EVENT, etc.) are
			// ignored: this client only needs position + history to play.
		}
	}

	return []ParsedGame{{
		Comments: comments,
		Version:  version,
		State:    state,
		History:  history,
	}}, nil
}

// Write renders games back into CSA record lines: comments, the
// "V<version>" line, the nine board rows and two hand rows via
// State.String, the to-move line, and the history as one move token per
// line, each followed by its own "T<elapsed>" line when an elapsed time
// is known. No PI preset line is emitted: the full position is always
// written explicitly.
func Write(games []ParsedGame) []string {
	var lines []string
	for _, g := range games {
		lines = append(lines, g.Comments...)
		lines = append(lines, "V"+g.Version)
		lines = append(lines, strings.Split(g.State.String(), "\n")...)
		for _, h := range g.History {
			if h.Elapsed != nil {
				lines = append(lines, h.Move.Raw, fmt.Sprintf("T%d", *h.Elapsed))
			} else {
				lines = append(lines, h.Move.Raw)
			}
		}
	}
	return lines
}
