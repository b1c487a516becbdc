// bgrules - Backgammon rules engine command line
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/bgrules/internal/config"
	"github.com/yourusername/bgrules/internal/obslog"
	"github.com/yourusername/bgrules/pkg/engine"
	"github.com/yourusername/bgrules/pkg/history"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "moves":
		err = cmdMoves(args)
	case "play":
		err = cmdPlay(args)
	case "pips":
		err = cmdPips(args)
	case "posid":
		err = cmdPosID(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bgrules - Backgammon Rules Engine

Usage: bgrules <command> [options]

Commands:
  moves     List the legal moves and plays for a roll
  play      Play a sequence of moves through a turn
  pips      Show pip counts
  posid     Show the position ID

Common options:
  -config <file>    YAML configuration (BGRULES_* variables override it)
  -position <file>  YAML placement file (default: starting position)
  -posid <id>       GNU Backgammon position ID, player on roll to move
  -player <color>   Player on roll: white or black (default white)

Origins are written as positions in the mover's own direction (1-24) or
"bar". A die may be forced with origin:die, e.g. "13:5".

Use "bgrules <command> -h" for command-specific help.`)
}

// session is the shared setup of every command.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	board  engine.Board
	player engine.Player
}

// sessionFlags are the options every command accepts.
type sessionFlags struct {
	cfgPath *string
	posPath *string
	posID   *string
	color   *string
}

func commonFlags(fs *flag.FlagSet) sessionFlags {
	return sessionFlags{
		cfgPath: fs.String("config", "", "Configuration file (YAML)"),
		posPath: fs.String("position", "", "Placement file (YAML)"),
		posID:   fs.String("posid", "", "Position ID (overrides -position)"),
		color:   fs.String("player", "white", "Player on roll (white or black)"),
	}
}

func (f sessionFlags) open() (*session, error) {
	return openSession(*f.cfgPath, *f.posPath, *f.posID, *f.color)
}

func openSession(cfgPath, posPath, posID, color string) (*session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if posPath != "" {
		cfg.Game.PositionFile = posPath
	}
	log := obslog.New(cfg.Log, os.Stderr)

	var c engine.Color
	if err := c.UnmarshalText([]byte(color)); err != nil {
		return nil, err
	}
	white, black := cfg.Players()
	player := white
	if c == engine.Black {
		player = black
	}

	var board engine.Board
	if posID != "" {
		board, err = engine.BoardFromPositionID(posID, player)
	} else {
		board, err = config.LoadBoard(cfg.Game.PositionFile, white, black)
	}
	if err != nil {
		return nil, err
	}

	log.Debug("session opened",
		zap.String("position", cfg.Game.PositionFile), zap.String("posid", posID),
		zap.Stringer("player", player))
	return &session{cfg: cfg, log: log, board: board, player: player}, nil
}

func parseDice(diceStr string) (int, int, error) {
	parts := strings.Split(diceStr, ",")
	if len(parts) != 2 {
		parts = strings.Split(diceStr, "-")
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("dice should be in format '3,1' or '3-1'")
	}

	d1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return 0, 0, fmt.Errorf("dice values must be 1-6")
	}
	return d1, d2, nil
}

// parseOrigin reads "bar", "13" or "13:5" for player p.
func parseOrigin(s string, p engine.Player) (engine.ContainerID, int, error) {
	die := 0
	if i := strings.Index(s, ":"); i >= 0 {
		d, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return engine.NoContainer, 0, fmt.Errorf("bad die in %q", s)
		}
		die = d
		s = s[:i]
	}
	if strings.EqualFold(s, "bar") {
		return engine.BarID(p.Direction), die, nil
	}
	pos, err := strconv.Atoi(s)
	if err != nil {
		return engine.NoContainer, 0, fmt.Errorf("bad origin %q", s)
	}
	id := engine.PointAt(p.Direction, pos)
	if id == engine.NoContainer {
		return engine.NoContainer, 0, fmt.Errorf("origin %d out of range", pos)
	}
	return id, die, nil
}

func cmdMoves(args []string) error {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	sf := commonFlags(fs)
	diceFlag := fs.String("dice", "", "Dice roll (e.g., 3,1 or 3-1)")
	numPlays := fs.Int("n", 10, "Number of plays to show")
	fs.Parse(args)

	if *diceFlag == "" {
		return fmt.Errorf("dice required\nUsage: bgrules moves -dice <roll>")
	}
	d1, d2, err := parseDice(*diceFlag)
	if err != nil {
		return err
	}
	s, err := sf.open()
	if err != nil {
		return err
	}

	for _, die := range distinct(d1, d2) {
		moves, err := engine.PossibleMoves(s.board, s.player, die)
		if err != nil {
			return err
		}
		fmt.Printf("Die %d:", die)
		if len(moves) == 0 {
			fmt.Print(" no legal move")
		}
		for _, sk := range moves {
			fmt.Printf(" %s", engine.Move{Player: s.player, Die: die, Kind: sk.Kind,
				Origin: sk.Origin, Destination: sk.Destination, Hit: sk.Hit})
		}
		fmt.Println()
	}

	plays, err := engine.LegalPlays(s.board, s.player, d1, d2)
	if err != nil {
		return err
	}
	if len(plays.Sequences) == 0 {
		fmt.Println("No legal plays (forced to pass)")
		return nil
	}
	fmt.Printf("%d legal plays for %d-%d (%d dice, %d pips):\n",
		len(plays.Sequences), d1, d2, plays.MaxDice, plays.MaxPips)
	for i, seq := range plays.Sequences {
		if i >= *numPlays {
			break
		}
		fmt.Printf("  %d. %s\n", i+1, seq)
	}
	return nil
}

func distinct(d1, d2 int) []int {
	if d1 == d2 {
		return []int{d1}
	}
	return []int{d1, d2}
}

func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	sf := commonFlags(fs)
	diceFlag := fs.String("dice", "", "Dice roll (e.g., 6,6)")
	movesFlag := fs.String("moves", "", "Origins to play, space or comma separated (e.g., \"24 13\")")
	confirm := fs.Bool("confirm", false, "Confirm the turn when it is complete")
	fs.Parse(args)

	if *diceFlag == "" {
		return fmt.Errorf("dice required\nUsage: bgrules play -dice <roll> -moves <origins>")
	}
	d1, d2, err := parseDice(*diceFlag)
	if err != nil {
		return err
	}
	s, err := sf.open()
	if err != nil {
		return err
	}

	store := history.NewMemoryStore(s.cfg.Game.HistoryLimit, s.log)
	turn, err := engine.NewTurn(s.board, s.player, d1, d2,
		engine.TurnOptions{Logger: s.log, Observer: store, Cache: engine.NewPlaysCache(s.cfg.Game.CacheSize)})
	if err != nil {
		return err
	}
	fmt.Printf("Turn %s: %s rolled %d-%d (%s)\n", turn.ID(), s.player, d1, d2, turn.State())

	fields := strings.FieldsFunc(*movesFlag, func(r rune) bool { return r == ',' || r == ' ' })
	for _, f := range fields {
		origin, die, err := parseOrigin(f, s.player)
		if err != nil {
			return err
		}
		var m engine.Move
		if die != 0 {
			turn, m, err = turn.MoveDie(origin, die)
		} else {
			turn, m, err = turn.Move(origin)
		}
		if err != nil {
			kind := "rejected"
			if engine.IsStructural(err) {
				kind = "invalid"
			}
			fmt.Printf("  %s: %s: %v\n", f, kind, err)
			continue
		}
		fmt.Printf("  %s\n", m)
	}

	for _, m := range turn.Moves() {
		if m.Kind == engine.KindNoMove {
			fmt.Printf("  %s\n", m)
		}
	}
	fmt.Printf("State: %s, pending dice: %d\n", turn.State(), len(turn.Pending()))

	adv := turn.Advise()
	if adv.FullerExists {
		fmt.Printf("Note: a fuller play uses %d dice (%d pips), e.g. %s\n",
			adv.MaxDice, adv.MaxPips, adv.Example)
	}

	if *confirm {
		if turn, err = turn.Confirm(); err != nil {
			return err
		}
		fmt.Printf("Confirmed %d moves\n", len(turn.Moves()))
	}

	for _, snap := range store.Snapshots(turn.ID()) {
		fmt.Printf("  #%d %-8s %s -> %s\n", snap.Seq, snap.Move, snap.BeforeID, snap.AfterID)
	}
	if err := store.Replay(turn.ID()); err != nil {
		return err
	}
	white, black := s.cfg.Players()
	return printPips(turn.Board(), white, black)
}

func cmdPips(args []string) error {
	fs := flag.NewFlagSet("pips", flag.ExitOnError)
	sf := commonFlags(fs)
	fs.Parse(args)

	s, err := sf.open()
	if err != nil {
		return err
	}
	white, black := s.cfg.Players()
	return printPips(s.board, white, black)
}

func printPips(b engine.Board, players ...engine.Player) error {
	for _, p := range players {
		fmt.Printf("%-24s pips %3d  checkers %2d  bar %d  off %d\n",
			p, b.PipCount(p), b.Total(p.Color),
			b.Count(engine.BarID(p.Direction), p.Color), b.Count(engine.OffID(p.Direction), p.Color))
	}
	return nil
}

func cmdPosID(args []string) error {
	fs := flag.NewFlagSet("posid", flag.ExitOnError)
	sf := commonFlags(fs)
	fs.Parse(args)

	s, err := sf.open()
	if err != nil {
		return err
	}
	id, err := engine.PositionID(s.board, s.player)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
