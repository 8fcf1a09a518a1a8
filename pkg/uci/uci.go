package uci

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	chess "github.com/notnil/chess"
	"github.com/rs/zerolog"

	"nidhogg/pkg/engine"
)

const engineName = "nidhogg"

// Run drives a line-oriented UCI session: commands read from in are
// translated into engine commands, engine replies are formatted onto out.
// It returns when the host sends quit or closes the input.
func Run(in io.Reader, out io.Writer, commands chan<- engine.Command, replies <-chan engine.Reply, logger zerolog.Logger) error {
	p := &printer{w: out}

	// Engine replies arrive asynchronously to a pending go or isready, so a
	// pump goroutine owns that half of the conversation. It ends when the
	// actor closes its reply channel on shutdown.
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for reply := range replies {
			switch r := reply.(type) {
			case engine.Ready:
				p.println("readyok")
			case engine.BestMove:
				p.printf("info score cp %d\n", r.Score)
				if r.Move != nil {
					p.printf("bestmove %s\n", r.Move)
				} else {
					p.println("bestmove 0000")
				}
			}
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		logger.Debug().Str("line", scanner.Text()).Msg("received command")
		switch tokens[0] {
		case "uci":
			p.println("id name " + engineName)
			p.println("uciok")
		case "isready":
			commands <- engine.ReadyCheck{}
		case "ucinewgame":
			commands <- engine.NewGame{}
		case "position":
			pos, err := ParsePosition(tokens[1:])
			if err != nil {
				logger.Error().Err(err).Msg("invalid position command")
				p.printf("info string %v\n", err)
				continue
			}
			commands <- engine.SetPosition{Position: pos}
		case "go":
			commands <- engine.Go{}
		case "stop":
			commands <- engine.Stop{}
		case "quit":
			commands <- engine.Quit{}
			<-pumpDone
			return scanner.Err()
		default:
			p.printf("info string unknown command %q\n", tokens[0])
		}
	}
	// Input closed without quit, shut the engine down anyway.
	commands <- engine.Quit{}
	<-pumpDone
	return scanner.Err()
}

// ParsePosition parses the arguments of a UCI position command, either
// "startpos [moves ...]" or "fen <6 fields> [moves ...]", and returns the
// resulting position with all listed moves applied.
func ParsePosition(args []string) (*chess.Position, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("position: missing arguments")
	}
	var pos *chess.Position
	var rest []string
	switch args[0] {
	case "startpos":
		pos = chess.NewGame().Position()
		rest = args[1:]
	case "fen":
		if len(args) < 7 {
			return nil, fmt.Errorf("position: fen requires 6 fields, got %d", len(args)-1)
		}
		fen, err := chess.FEN(strings.Join(args[1:7], " "))
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		pos = chess.NewGame(fen).Position()
		rest = args[7:]
	default:
		return nil, fmt.Errorf("position: unknown form %q", args[0])
	}
	if len(rest) == 0 {
		return pos, nil
	}
	if rest[0] != "moves" {
		return nil, fmt.Errorf("position: unexpected token %q", rest[0])
	}
	for _, token := range rest[1:] {
		move, err := chess.UCINotation{}.Decode(pos, token)
		if err != nil {
			return nil, fmt.Errorf("position: move %q: %w", token, err)
		}
		pos = pos.Update(move)
	}
	return pos, nil
}

// printer serializes protocol output, the reply pump and the command loop
// both write to it.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
