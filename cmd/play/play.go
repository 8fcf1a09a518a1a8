package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	gt "github.com/buger/goterm"
	chess "github.com/notnil/chess"
	"github.com/rs/zerolog"

	"nidhogg/pkg/engine"
)

var game *chess.Game
var reader *bufio.Reader

func main() {
	depth := flag.Int("depth", 4, "engine search depth")
	flag.Parse()

	reader = bufio.NewReader(os.Stdin)
	game = chess.NewGame()
	commands, replies := engine.Start(engine.Config{Depth: *depth, Logger: zerolog.Nop()})

	for game.Outcome() == chess.NoOutcome {
		draw()
		if game.Position().Turn() == chess.White {
			humanTurn()
		} else {
			engineTurn(commands, replies)
		}
	}
	draw()
	gt.Println("Game over:", game.Outcome(), "by", game.Method())
	gt.Flush()
	commands <- engine.Quit{}
}

func draw() {
	gt.Clear()
	gt.MoveCursor(1, 1)
	gt.Println(game.Position().Board().Draw())
	if moves := game.Moves(); len(moves) > 0 {
		gt.Println("Last move:", moves[len(moves)-1])
	}
	gt.Flush()
}

// humanTurn reads moves from stdin until one of them is legal.
func humanTurn() {
	for {
		fmt.Print("Your move: ")
		text, err := reader.ReadString('\n')
		if err != nil {
			os.Exit(0)
		}
		input := strings.TrimSpace(text)
		if input == "quit" {
			os.Exit(0)
		}
		if err := game.MoveStr(input); err != nil {
			fmt.Printf("Invalid move %q: %v\n", input, err)
			continue
		}
		return
	}
}

// engineTurn hands the current position to the engine and plays its reply.
func engineTurn(commands chan<- engine.Command, replies <-chan engine.Reply) {
	commands <- engine.SetPosition{Position: game.Position()}
	commands <- engine.Go{}
	for reply := range replies {
		best, ok := reply.(engine.BestMove)
		if !ok {
			continue
		}
		if best.Move == nil {
			return
		}
		fmt.Println("Engine plays:", best.Move, "score:", best.Score)
		if err := game.Move(best.Move); err != nil {
			fmt.Println("Engine produced an illegal move:", err)
			os.Exit(1)
		}
		return
	}
}
