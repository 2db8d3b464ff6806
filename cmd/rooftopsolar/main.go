package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/raterudder/rooftopsolar/pkg/irradiance"
	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/recommend"
	"github.com/raterudder/rooftopsolar/pkg/server"
	"github.com/raterudder/rooftopsolar/pkg/solar"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

// slogLevel maps the level lflag set on llog to slog.
func slogLevel() slog.Level {
	switch llog.GetLevel() {
	case llog.DebugLevel:
		return slog.LevelDebug
	case llog.InfoLevel:
		return slog.LevelInfo
	case llog.WarnLevel:
		return slog.LevelWarn
	case llog.ErrorLevel:
		return slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
}

func main() {
	// init packages
	c := catalog.Configured()
	p := irradiance.Configured()
	n := recommend.Configured()

	// the calculator needs the loaded catalog so it's filled in after the
	// flags are parsed
	calc := &solar.Calculator{}

	// init server
	srv := server.Configured(calc, p, n)

	// parse flags
	lflag.Configure()
	*calc = *solar.NewCalculator(c)

	// lflag automatically sets llog's level, but we need to set the slog level
	level := slogLevel()
	log.SetDefaultLogLevel(level)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
