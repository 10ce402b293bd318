package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/difficulty"
	"github.com/tomz197/snake/internal/loop"
	loopconfig "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/scores"
	"github.com/tomz197/snake/internal/session"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	// The terminal is in raw mode while playing, so logs go to a file.
	logger, closeLog, err := config.OpenLogFile("game")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	defer closeLog()

	level, err := difficulty.Parse(config.GetEnv("SNAKE_DIFFICULTY", difficulty.Normal.String()))
	if err != nil {
		logger.Warn("ignoring SNAKE_DIFFICULTY", "err", err)
		level = difficulty.Normal
	}

	store, _ := scores.Open(config.GetEnv("SNAKE_SCORES_FILE", loopconfig.DefaultScoresFile), scores.Options{
		MaxPerDifficulty: loopconfig.MaxScoresPerDifficulty,
		Logger:           logger,
	})

	var listeners []session.Listener
	if config.GetEnvBool("SNAKE_SOUND", true) {
		cues := audio.NewCues(logger)
		if err := cues.Initialize(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer cues.Close()
			listeners = append(listeners, cues)
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(reader, os.Stdout, loop.ClientOptions{
		Player:     config.GetEnv("SNAKE_PLAYER", config.GetEnv("USER", loop.DefaultPlayer)),
		Difficulty: level,
		Store:      store,
		Logger:     logger,
		Listeners:  listeners,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
