package main

import (
	"batepapo/client"
	"batepapo/domain"
	"batepapo/runtime/workers"
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress     string        `env:"CHAT_SERVER_ADDR,default=http://localhost:5000"`
	Name              string        `env:"CHAT_NAME,required=true"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=5s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=1s"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run joins the room, keeps the participant alive with heartbeats
// and posts every stdin line as a public message until stdin closes or a signal arrives.
func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.NewClient(config.ServerAddress)
	if _, err := c.Join(ctx, config.Name); err != nil {
		return exitRuntime, fmt.Errorf("could not join %s as %q: %w", config.ServerAddress, config.Name, err)
	}
	log.Info("Joined the room (Ctrl+D to quit)", "server", config.ServerAddress, "name", config.Name)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewHeartbeatWorker(log, c, config.Name, config.HeartbeatInterval))
	go sup.Run(ctx)
	defer sup.Stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			post(ctx, log, c, config.Name, line)
		}
	}
}

func post(ctx context.Context, log *slog.Logger, c *client.Client, name, line string) {
	text := strings.TrimSpace(line)
	if text == "" {
		return
	}
	m, err := c.Post(ctx, name, domain.Broadcast, text, string(domain.KindChat))
	if err != nil {
		log.Warn("Message not sent", "error", err)
		return
	}
	fmt.Printf("(%s) %s: %s\n", m.Time, m.From, m.Text)
}
