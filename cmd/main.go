package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"nidhogg/pkg/engine"
	"nidhogg/pkg/logx"
	"nidhogg/pkg/uci"
)

func main() {
	depth := flag.Int("depth", engine.DefaultDepth, "iterative deepening ceiling")
	tableSize := flag.Int("table-size", 0, "transposition table entry ceiling, 0 for default")
	logPath := flag.String("log", "", "write a debug log to this file")
	flag.Parse()

	// The UCI host owns stdout, so logging is off unless a file is given.
	logger := zerolog.Nop()
	if *logPath != "" {
		fileLogger, err := logx.File(*logPath)
		if err != nil {
			stderrLogger := logx.New(os.Stderr)
			stderrLogger.Error().Err(err).Str("path", *logPath).Msg("cannot open log file")
			os.Exit(1)
		}
		logger = fileLogger
	}

	commands, replies := engine.Start(engine.Config{
		Depth:     *depth,
		TableSize: *tableSize,
		Logger:    logger,
	})
	if err := uci.Run(os.Stdin, os.Stdout, commands, replies, logger); err != nil {
		logger.Error().Err(err).Msg("session ended with error")
		os.Exit(1)
	}
}
