// Command emitter is a demo producer. It tracks circle-tapped events
// with a random color at a fixed rate and ships them through the
// client package, persisting the pending queue on shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/client"
	"github.com/mykolaharmash/telemetry-service-demo/internal/logger"
)

var colors = []string{"red", "green", "blue", "yellow"}

func main() {
	host := flag.String("host", "http://localhost:8080", "collector base URL")
	token := flag.String("token", "", "ingest auth token")
	interval := flag.Duration("interval", 500*time.Millisecond, "delay between tracked events")
	slot := flag.String("slot", "emitter-events-cache.json", "durable slot file for the pending queue")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "missing required -token flag")
		os.Exit(1)
	}

	log, err := logger.New("development")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() {
		_ = log.Sync()
	}()

	c := client.New(client.Config{
		Host:          *host,
		IngestToken:   *token,
		SlotPath:      *slot,
		FlushInterval: 5 * time.Second,
		Logger:        log,
	})

	ctx := context.Background()
	c.Start(ctx)

	log.Info("Emitter started", zap.String("host", *host))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			color := colors[rand.Intn(len(colors))]
			c.Track("circle-tapped", map[string]string{"color": color})
		case <-sigChan:
			break loop
		}
	}

	log.Info("Shutting down emitter", zap.Int("pending_events", c.Pending()))

	if err := c.Stop(ctx); err != nil {
		log.Error("Failed to persist pending events", zap.Error(err))
	}
}
