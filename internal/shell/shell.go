// Package shell implements the interactive REPL (component I): the
// external adapter that drives a csaclient.Client from a line-oriented
// terminal, the same role the source's shell.py plays over Python's
// stdin/stdout.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mogproject/mog-cli-archive/internal/csaclient"
	"github.com/mogproject/mog-cli-archive/internal/game"
	"github.com/mogproject/mog-cli-archive/internal/transport"
)

// ErrExit is returned by the EXIT/QUIT/Q command to break the REPL loop
// cleanly. EOF on the input stream ends the loop directly, without it.
var ErrExit = errors.New("shell: exit")

// ArgumentsError reports that a command was called with the wrong
// number, or shape, of arguments.
type ArgumentsError struct {
	Detail string
}

func (e *ArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Detail)
}

// FailedError reports that a command's underlying operation did not
// succeed (e.g. the server rejected a login).
type FailedError struct {
	Detail string
}

func (e *FailedError) Error() string {
	return e.Detail
}

// Mode identifies which command set and prompt are active.
type Mode int

const (
	ModeInit Mode = iota
	ModeNetwork
	ModeStandalone
)

// Command is one shell command: a small set of aliases, a one-line
// description shown by HELP's overview, a longer usage string shown by
// HELP <command>, and the action itself.
type Command interface {
	Name() string
	Aliases() []string
	Summary() string
	Usage() string
	Run(sh *Shell, args []string) error
}

// Shell is the interactive REPL: input/output streams, connection
// defaults, and whatever game/client are live in MODE_NETWORK.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer
	log *logrus.Entry

	DefaultHost string
	DefaultPort int
	DefaultUser string
	DefaultPass string

	Client *csaclient.Client
	Game   *game.Game

	mode     Mode
	commands map[string]Command
}

// New builds a Shell reading commands from in and writing output to out.
func New(in io.Reader, out io.Writer, log *logrus.Entry) *Shell {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	sh := &Shell{in: bufio.NewScanner(in), out: out, log: log}
	sh.SetMode(ModeInit)
	return sh
}

// SetMode switches the active command set (and prompt) to mode.
func (sh *Shell) SetMode(mode Mode) {
	sh.mode = mode
	switch mode {
	case ModeInit:
		sh.setCommands(helpCommand{}, exitCommand{}, loginCommand{}, historyCommand{})
	case ModeNetwork:
		sh.setCommands(helpCommand{}, exitCommand{}, historyCommand{}, moveCommand{}, resignCommand{}, winCommand{}, infoCommand{})
	case ModeStandalone:
		sh.setCommands(helpCommand{}, exitCommand{}, historyCommand{}, infoCommand{})
	}
}

func (sh *Shell) setCommands(cmds ...Command) {
	sh.commands = make(map[string]Command)
	for _, cmd := range cmds {
		for _, alias := range cmd.Aliases() {
			sh.commands[strings.ToUpper(alias)] = cmd
		}
	}
}

// Prompt renders the current prompt string, matching the source's
// per-mode formats.
func (sh *Shell) Prompt() string {
	switch sh.mode {
	case ModeNetwork:
		return fmt.Sprintf("[%s]%s%03d> ", sh.Client.Addr(), sh.Game.State.ToMove, len(sh.Game.History))
	default:
		if sh.Game != nil {
			return fmt.Sprintf("[not connected]%s%03d(end)> ", sh.Game.State.ToMove, len(sh.Game.History))
		}
		return "[not connected]> "
	}
}

// SysMessage writes a "### ..." status line, matching the source's
// sys_message.
func (sh *Shell) SysMessage(msg string) {
	fmt.Fprintf(sh.out, "### %s\n", msg)
}

// GameEndBanner writes the boxed "YOU WIN!"/"YOU LOSE!"/"DRAW!" banner
// for the given CSA result token.
func (sh *Shell) GameEndBanner(result string) {
	const width = 80
	label, ok := map[string]string{"#WIN": "YOU WIN!", "#LOSE": "YOU LOSE!", "#DRAW": "DRAW!"}[result]
	if !ok {
		label = result
	}
	bar := strings.Repeat("*", width)
	fmt.Fprintf(sh.out, "%s\n*%s*\n%s\n", bar, center(label, width-2), bar)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// Start runs the read-dispatch loop until EXIT, EOF, or an unrecoverable
// error. Command panics are not recovered; Run errors are printed the
// way the source prints "Exception: <repr>" and the loop continues,
// except ErrExit and transport.Disconnected, which are handled specially.
func (sh *Shell) Start() {
	for {
		fmt.Fprint(sh.out, sh.Prompt())

		if !sh.in.Scan() {
			return
		}
		line := strings.TrimSpace(sh.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		name := strings.ToUpper(fields[0])
		args := fields[1:]

		cmd, ok := sh.commands[name]
		if !ok {
			fmt.Fprintf(sh.out, "unknown command: %s\n", fields[0])
			continue
		}

		err := cmd.Run(sh, args)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrExit) {
			return
		}
		if errors.Is(err, transport.Disconnected) {
			sh.log.Debugf("command %s lost connection: %v", name, err)
			fmt.Fprintf(sh.out, "Exception: %v\n", err)
			if sh.Client != nil {
				_ = sh.Client.Close()
			}
			sh.Client = nil
			sh.Game = nil
			sh.SetMode(ModeInit)
			continue
		}
		sh.log.Debugf("command %s failed: %v", name, err)
		fmt.Fprintf(sh.out, "Exception: %v\n", err)
	}
}
