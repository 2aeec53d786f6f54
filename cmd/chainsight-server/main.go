// Command chainsight-server runs the HTTP API: session-scoped uploads,
// risk reports, Monte Carlo simulations and snapshot export.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainsight-io/chainsight/pkg/logging"
	"github.com/chainsight-io/chainsight/pkg/server"
	"github.com/chainsight-io/chainsight/pkg/session"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		ttl        = flag.Duration("session-ttl", session.DefaultTTL, "idle session lifetime")
		capacity   = flag.Int("session-capacity", session.DefaultCapacity, "max concurrent sessions")
		buildSlots = flag.Int("build-slots", session.DefaultBuildSlots, "max concurrent graph builds")
		logLevel   = flag.String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	)
	flag.Parse()

	log := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(*logLevel))
	logging.SetDefault(log)

	sessions := session.NewManager(session.Config{
		TTL:        *ttl,
		Capacity:   *capacity,
		BuildSlots: *buildSlots,
		Logger:     log,
	})
	defer sessions.Close()

	cfg := server.DefaultConfig()
	cfg.Addr = *addr
	srv := server.New(cfg, sessions, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("chainsight server starting",
		logging.Field{Key: "addr", Value: *addr},
		logging.Field{Key: "session_ttl", Value: ttl.String()},
		logging.Field{Key: "session_capacity", Value: *capacity},
		logging.Field{Key: "build_slots", Value: *buildSlots},
	)
	start := time.Now()
	if err := srv.Run(ctx); err != nil {
		log.Error("server exited", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	log.Info("server stopped", logging.Field{Key: "uptime", Value: time.Since(start).String()})
}
