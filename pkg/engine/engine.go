package engine

import (
	"context"

	"github.com/google/uuid"
	chess "github.com/notnil/chess"
	"github.com/rs/zerolog"

	"nidhogg/pkg/transposition"
)

// Command is the closed set of messages the engine actor consumes.
type Command interface{ isCommand() }

// SetPosition replaces the stored position. Idle only.
type SetPosition struct{ Position *chess.Position }

// Go starts a bounded search from the current position. Exactly one BestMove
// reply follows.
type Go struct{}

// Stop requests cancellation of an in-flight search.
type Stop struct{}

// NewGame discards all persistent search memory.
type NewGame struct{}

// ReadyCheck is a liveness probe, answered immediately in any state.
type ReadyCheck struct{}

// Quit terminates the engine's loop.
type Quit struct{}

func (SetPosition) isCommand() {}
func (Go) isCommand()          {}
func (Stop) isCommand()        {}
func (NewGame) isCommand()     {}
func (ReadyCheck) isCommand()  {}
func (Quit) isCommand()        {}

// Reply is the closed set of messages the engine actor emits.
type Reply interface{ isReply() }

// Ready acknowledges a ReadyCheck.
type Ready struct{}

// BestMove is the terminal reply to a Go. Score is centipawns from the
// mover's perspective, ±MateScore for forced results. Move is nil only when
// Go was issued on a finished game.
type BestMove struct {
	Move  *chess.Move
	Score int
}

func (Ready) isReply()    {}
func (BestMove) isReply() {}

// Config carries the engine's tunables. Zero values select defaults.
type Config struct {
	Depth     int // iterative deepening ceiling
	TableSize int // transposition table entry ceiling
	Logger    zerolog.Logger
}

// Engine is the actor owning the authoritative position and the
// transposition table. All state mutation happens on its Run loop, the
// outside world only ever talks to it through the command channel.
type Engine struct {
	cfg      Config
	commands chan Command
	replies  chan Reply
	pos      *chess.Position
	table    *transposition.Table
	log      zerolog.Logger
}

type searchOutcome struct {
	move  *chess.Move
	score int
	err   error
}

// New returns an engine actor ready to Run. The position starts at the
// standard starting position.
func New(cfg Config) *Engine {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.TableSize <= 0 {
		cfg.TableSize = transposition.DefaultLimit
	}
	return &Engine{
		cfg:      cfg,
		commands: make(chan Command),
		replies:  make(chan Reply, 16),
		pos:      chess.NewGame().Position(),
		table:    transposition.New(cfg.TableSize),
		log:      cfg.Logger,
	}
}

// Start launches the engine actor on its own goroutine and returns its
// command and reply channels. Closing the command channel shuts it down.
func Start(cfg Config) (chan<- Command, <-chan Reply) {
	e := New(cfg)
	go e.Run()
	return e.commands, e.replies
}

// Commands is the actor's inbound channel.
func (e *Engine) Commands() chan<- Command { return e.commands }

// Replies is the actor's outbound channel. It is closed when the loop exits.
func (e *Engine) Replies() <-chan Reply { return e.replies }

// Run consumes commands until Quit or channel closure. It never runs
// concurrently with itself, the actor loop is the only goroutine touching
// the position and table references.
func (e *Engine) Run() {
	defer close(e.replies)
	for cmd := range e.commands {
		switch c := cmd.(type) {
		case SetPosition:
			e.pos = c.Position
			e.log.Debug().Str("fen", e.pos.String()).Msg("position set")
		case Go:
			if e.runSearch() {
				return
			}
		case NewGame:
			e.table = transposition.New(e.cfg.TableSize)
			e.log.Debug().Msg("table reset for new game")
		case ReadyCheck:
			e.replies <- Ready{}
		case Quit:
			return
		case Stop:
			// No search in flight, the protocol layer broke its contract.
			e.log.Warn().Msg("stop received while idle")
		}
	}
}

// runSearch ages the table, runs the coordinator on a worker goroutine and
// blocks the actor loop until completion or a Stop, answering ReadyChecks in
// the meantime. It reports whether the actor should quit afterwards.
func (e *Engine) runSearch() (quit bool) {
	e.table.Age()
	searchID := uuid.NewString()
	logger := e.log.With().Str("search", searchID).Logger()
	logger.Info().Int("depth", e.cfg.Depth).Msg("search started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan searchOutcome, 1)
	go func() {
		move, score, err := Search(ctx, e.pos, e.table, e.cfg.Depth, logger)
		done <- searchOutcome{move: move, score: score, err: err}
	}()

	var out searchOutcome
wait:
	for {
		select {
		case out = <-done:
			break wait
		case cmd, ok := <-e.commands:
			if !ok {
				cancel()
				<-done
				return true
			}
			switch cmd.(type) {
			case Stop:
				cancel()
				out = <-done
				break wait
			case Quit:
				cancel()
				out = <-done
				quit = true
				break wait
			case ReadyCheck:
				e.replies <- Ready{}
			default:
				logger.Warn().Type("command", cmd).Msg("command ignored while searching")
			}
		}
	}

	if out.err != nil {
		logger.Error().Err(out.err).Msg("search failed")
	}
	stats := e.table.Stats()
	logger.Info().
		Uint64("table-lookups", stats.Lookups).
		Uint64("table-hits", stats.Hits).
		Uint64("table-stores", stats.Stores).
		Uint64("table-prunes", stats.Prunes).
		Int("table-size", e.table.Len()).
		Int("score", out.score).
		Msg("search finished")
	e.replies <- BestMove{Move: out.move, Score: out.score}
	return quit
}
