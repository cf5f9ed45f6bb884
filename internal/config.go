package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	Host             string        `env:"HOST,default=0.0.0.0"`
	Port             int           `env:"PORT,default=5000"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL,default=15s"`
	StalenessTimeout time.Duration `env:"STALENESS_TIMEOUT,default=10s"`
	SweepConcurrency int           `env:"SWEEP_CONCURRENCY,default=4"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	MonitorInterval  time.Duration `env:"MONITOR_INTERVAL,default=5s"`
	MaxBodyBytes     int64         `env:"MAX_BODY_BYTES,default=8192"`
	MaxNameLength    int           `env:"MAX_NAME_LENGTH,default=64"`
	MaxTextLength    int           `env:"MAX_TEXT_LENGTH,default=2000"`
	CensoredWords    string        `env:"CENSORED_WORDS"`
	CharReplacement  string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	DebugPort        int           `env:"DEBUG_PORT,default=8081"`
}

// Validate rejects values the server cannot run with.
// A sweep interval longer than the staleness timeout is allowed but logged,
// since participants then linger up to interval+timeout.
func (c Config) Validate(log *slog.Logger) error {
	switch {
	case c.SweepInterval <= 0:
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	case c.StalenessTimeout <= 0:
		return fmt.Errorf("STALENESS_TIMEOUT must be positive, got %s", c.StalenessTimeout)
	case c.SweepConcurrency <= 0:
		return fmt.Errorf("SWEEP_CONCURRENCY must be positive, got %d", c.SweepConcurrency)
	case c.MonitorInterval <= 0:
		return fmt.Errorf("MONITOR_INTERVAL must be positive, got %s", c.MonitorInterval)
	case c.MaxNameLength <= 0 || c.MaxTextLength <= 0 || c.MaxBodyBytes <= 0:
		return fmt.Errorf("MAX_NAME_LENGTH, MAX_TEXT_LENGTH and MAX_BODY_BYTES must be positive")
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	if c.SweepInterval > c.StalenessTimeout && log != nil {
		log.Warn("Sweep interval exceeds staleness timeout, evictions will lag",
			"interval", c.SweepInterval, "timeout", c.StalenessTimeout)
	}
	return nil
}

// Words splits CENSORED_WORDS on commas, dropping blanks.
func (c Config) Words() []string {
	return lo.FilterMap(strings.Split(c.CensoredWords, ","), func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return w, w != ""
	})
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
