package shell

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/mogproject/mog-cli-archive/internal/csaclient"
	"github.com/mogproject/mog-cli-archive/internal/game"
	"github.com/mogproject/mog-cli-archive/internal/shogi"
	"github.com/mogproject/mog-cli-archive/internal/transport"
)

// helpCommand prints either the overview of every command in the
// current mode, or one command's usage string.
type helpCommand struct{}

func (helpCommand) Name() string      { return "HELP" }
func (helpCommand) Aliases() []string { return []string{"HELP", "?", "H"} }
func (helpCommand) Summary() string   { return "Print help message" }
func (helpCommand) Usage() string     { return "HELP [command]\n\nWith no argument, list every available command." }

func (helpCommand) Run(sh *Shell, args []string) error {
	if len(args) == 0 {
		seen := map[string]Command{}
		for _, cmd := range sh.commands {
			seen[cmd.Name()] = cmd
		}
		names := make([]string, 0, len(seen))
		for name := range seen {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(sh.out, "\n  %-20s: brief description\n\n", "command (alias)")
		for _, name := range names {
			cmd := seen[name]
			aliases := otherAliases(cmd)
			label := name
			if len(aliases) > 0 {
				label = fmt.Sprintf("%s (%s)", name, strings.Join(aliases, ", "))
			}
			fmt.Fprintf(sh.out, "  %-20s: %s\n", label, cmd.Summary())
		}
		fmt.Fprintln(sh.out, "\n  see more messages to type 'help <command>'")
		return nil
	}

	cmd, ok := sh.commands[strings.ToUpper(args[0])]
	if !ok {
		return &ArgumentsError{Detail: fmt.Sprintf("no such command: %s", args[0])}
	}
	fmt.Fprintf(sh.out, "\n  %s - %s\n\n  %s\n", cmd.Name(), cmd.Summary(), cmd.Usage())
	return nil
}

func otherAliases(cmd Command) []string {
	var out []string
	for _, a := range cmd.Aliases() {
		if a != cmd.Name() {
			out = append(out, a)
		}
	}
	return out
}

// exitCommand ends the REPL loop.
type exitCommand struct{}

func (exitCommand) Name() string      { return "EXIT" }
func (exitCommand) Aliases() []string { return []string{"EXIT", "QUIT", "Q"} }
func (exitCommand) Summary() string   { return "Exit interactive shell" }
func (exitCommand) Usage() string     { return "EXIT\n\nClose the shell. Arguments are ignored." }

func (exitCommand) Run(sh *Shell, args []string) error {
	return ErrExit
}

// historyCommand prints the game's move history so far.
type historyCommand struct{}

func (historyCommand) Name() string      { return "HISTORY" }
func (historyCommand) Aliases() []string { return []string{"HISTORY"} }
func (historyCommand) Summary() string   { return "Print move history" }
func (historyCommand) Usage() string     { return "HISTORY\n\nPrint every move played so far in the current game." }

func (historyCommand) Run(sh *Shell, args []string) error {
	if len(args) != 0 {
		return &ArgumentsError{Detail: fmt.Sprintf("HISTORY takes no arguments: %v", args)}
	}
	if sh.Game == nil {
		fmt.Fprintln(sh.out, "no game")
		return nil
	}
	fmt.Fprintln(sh.out, sh.Game.HistoryString())
	return nil
}

// infoCommand prints the full game banner (summary, time settings,
// position, history).
type infoCommand struct{}

func (infoCommand) Name() string      { return "INFO" }
func (infoCommand) Aliases() []string { return []string{"INFO", "I"} }
func (infoCommand) Summary() string   { return "Print game information" }
func (infoCommand) Usage() string     { return "INFO\n\nPrint the current game's summary, time settings, position, and history." }

func (infoCommand) Run(sh *Shell, args []string) error {
	if sh.Game == nil {
		fmt.Fprintln(sh.out, "no game")
		return nil
	}
	fmt.Fprintln(sh.out, sh.Game.String())
	return nil
}

// loginCommand connects to a server, logs in, and if the resulting game
// is agreed to, switches the shell into ModeNetwork.
type loginCommand struct{}

func (loginCommand) Name() string      { return "LOGIN" }
func (loginCommand) Aliases() []string { return []string{"LOGIN"} }
func (loginCommand) Summary() string   { return "Login to the server" }
func (loginCommand) Usage() string {
	return "LOGIN [host[:port]] [username] [password]\n\n" +
		"Any omitted argument falls back to this shell's configured default."
}

func (loginCommand) Run(sh *Shell, args []string) error {
	host, port, username, password, err := parseLoginArgs(sh, args)
	if err != nil {
		return err
	}

	c, err := csaclient.Dial(host, port, nil)
	if err != nil {
		return &FailedError{Detail: fmt.Sprintf("could not connect to %s:%d: %v", host, port, err)}
	}

	ok, _, err := c.Login(username, password)
	if err != nil {
		return err
	}
	if !ok {
		return &FailedError{Detail: "failed to login"}
	}

	cond, err := c.GetGameCondition()
	if err != nil {
		return err
	}
	g, err := game.New(cond)
	if err != nil {
		return err
	}

	fmt.Fprint(sh.out, "agree to this game? [Y/n]: ")
	reply := ""
	if sh.in.Scan() {
		reply = strings.TrimSpace(sh.in.Text())
	}

	if reply != "" && strings.ToUpper(reply) != "Y" {
		if _, err := c.Reject(cond); err != nil {
			return err
		}
		return nil
	}

	if err := c.Agree(cond); err != nil {
		return err
	}
	started, _, err := c.GetAgreement(cond)
	if err != nil {
		return err
	}
	if !started {
		fmt.Fprintln(sh.out, "Game was rejected by peer.")
		return nil
	}

	fmt.Fprintf(sh.out, "Game started: %s\n", g.ID)
	sh.Client = c
	sh.Game = g
	sh.SetMode(ModeNetwork)

	if !g.IsMyTurn() {
		return waitMove(sh)
	}
	return nil
}

func parseLoginArgs(sh *Shell, args []string) (host string, port int, username, password string, err error) {
	if len(args) > 3 {
		return "", 0, "", "", &ArgumentsError{Detail: fmt.Sprintf("too many arguments: %v", args)}
	}

	host, port = sh.DefaultHost, sh.DefaultPort
	if len(args) >= 1 {
		h, p, perr := splitHostPort(args[0], sh.DefaultPort)
		if perr != nil {
			return "", 0, "", "", &ArgumentsError{Detail: perr.Error()}
		}
		host, port = h, p
	}
	if host == "" {
		host = csaclient.DefaultHost
	}
	if port == 0 {
		port = csaclient.DefaultPort
	}

	username = sh.DefaultUser
	if len(args) >= 2 {
		username = args[1]
	}
	password = sh.DefaultPass
	if len(args) >= 3 {
		password = args[2]
	}
	if username == "" || password == "" {
		return "", 0, "", "", &ArgumentsError{Detail: "username and password are required"}
	}
	return host, port, username, password, nil
}

func splitHostPort(s string, defaultPort int) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return s, defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q", s)
	}
	return host, port, nil
}

// moveCommand sends a move and then waits for the peer's reply.
type moveCommand struct{}

func (moveCommand) Name() string      { return "MOVE" }
func (moveCommand) Aliases() []string { return []string{"MOVE", "M"} }
func (moveCommand) Summary() string   { return "Send the move and wait for peer's move" }
func (moveCommand) Usage() string {
	return "MOVE <move>\n\n" +
		"<move> may omit the leading turn marker; it's filled in from whose move it is."
}

func (moveCommand) Run(sh *Shell, args []string) error {
	if len(args) != 1 {
		return &ArgumentsError{Detail: fmt.Sprintf("MOVE takes exactly one argument: %v", args)}
	}
	s := args[0]
	if !strings.HasPrefix(s, string(sh.Game.MyTurn)) {
		s = string(sh.Game.MyTurn) + s
	}

	res, err := sh.Client.Move(s)
	if err != nil {
		return err
	}
	if err := applyMoveResult(sh, res); err != nil {
		return err
	}
	if res.Ended() {
		return nil
	}
	return waitMove(sh)
}

// waitMove blocks for the peer's move (or the game's end) and applies
// whatever comes back.
func waitMove(sh *Shell) error {
	sh.SysMessage("waiting for peer's move...")
	res, err := sh.Client.GetMove()
	if err != nil {
		return err
	}
	return applyMoveResult(sh, res)
}

// applyMoveResult folds a MoveResult into the game: a confirmed normal
// move, an echoed special move, and/or a game-end pair. Ending a game
// logs out and returns the shell to ModeInit.
func applyMoveResult(sh *Shell, res *csaclient.MoveResult) error {
	if res.Command != "" {
		mv, perr := shogi.ParseMove(res.Command, res.Elapsed)
		if perr != nil {
			return perr
		}
		sh.SysMessage(fmt.Sprintf("move: %s", mv))
		sh.Game.Apply(mv, res.Elapsed)
	}

	if !res.Ended() {
		return nil
	}

	sh.GameEndBanner(res.EndResult)
	if _, _, err := sh.Client.Logout(); err != nil && !errors.Is(err, transport.Disconnected) {
		return err
	}
	sh.SetMode(ModeInit)
	return nil
}

// resignCommand sends %TORYO.
type resignCommand struct{}

func (resignCommand) Name() string      { return "RESIGN" }
func (resignCommand) Aliases() []string { return []string{"RESIGN"} }
func (resignCommand) Summary() string   { return "Resign this game" }
func (resignCommand) Usage() string     { return "RESIGN\n\nConcede the current game immediately." }

func (resignCommand) Run(sh *Shell, args []string) error {
	res, err := sh.Client.Resign()
	if err != nil {
		return err
	}
	return applyMoveResult(sh, res)
}

// winCommand declares a win by entering king (%KACHI).
type winCommand struct{}

func (winCommand) Name() string      { return "WIN" }
func (winCommand) Aliases() []string { return []string{"WIN"} }
func (winCommand) Summary() string   { return "Declare win to this game" }
func (winCommand) Usage() string     { return "WIN\n\nClaim a win by entering-king declaration." }

func (winCommand) Run(sh *Shell, args []string) error {
	res, err := sh.Client.DeclareWin()
	if err != nil {
		return err
	}
	return applyMoveResult(sh, res)
}
