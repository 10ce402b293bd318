package main

import (
	_ "embed"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tomz197/snake/internal/config"
	loopconfig "github.com/tomz197/snake/internal/loop/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := config.NewLogger(os.Stderr, "web")
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("could not load .env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scoresPath := config.GetEnv("SNAKE_SCORES_FILE", loopconfig.DefaultScoresFile)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newMux(htmlPage, sshHost, scoresPath, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting web server", "addr", "http://"+srv.Addr, "scores", scoresPath)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
