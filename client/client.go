package client

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBatchSize caps how many events travel in one transmission.
const DefaultBatchSize = 20

const defaultFlushInterval = 10 * time.Second

// Config configures a telemetry Client. Host and IngestToken are
// required; everything else has a usable default.
type Config struct {
	// Host is the collector base URL, e.g. "http://localhost:8080".
	Host string
	// IngestToken is the ingest-scoped bearer token.
	IngestToken string
	// DeviceID is the stable identifier of this installation. A random
	// one is generated when empty.
	DeviceID string
	// SlotPath is the durable slot file for the pending queue. Leave
	// empty to disable cross-session persistence.
	SlotPath string

	BatchSize     int
	FlushInterval time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client is the telemetry producer facade: it stamps and buffers
// events, flushes batches on a timer, and parks the pending queue in
// the durable slot across suspend/resume.
type Client struct {
	deviceID    string
	buffer      *Buffer
	store       *QueueStore
	transmitter *Transmitter
	log         *zap.Logger

	// flushMu serializes flush cycles against suspend/resume so the
	// durable slot is never touched while a send is in flight.
	flushMu sync.Mutex

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	interval time.Duration
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	deviceID := cfg.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = defaultFlushInterval
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	buffer := NewBuffer()

	var store *QueueStore
	if cfg.SlotPath != "" {
		store = NewQueueStore(cfg.SlotPath, log)
	}

	endpoint := strings.TrimRight(cfg.Host, "/") + "/events"

	return &Client{
		deviceID:    deviceID,
		buffer:      buffer,
		store:       store,
		transmitter: NewTransmitter(buffer, httpClient, endpoint, cfg.IngestToken, batchSize, log),
		log:         log,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		interval:    interval,
	}
}

// Track records one usage event. It stamps the event with a fresh id
// and the current time and appends it to the buffer; it never blocks
// on the network and never fails.
func (c *Client) Track(eventKind string, parameters map[string]string) {
	// A nil map would serialize as a null parameters field, which the
	// collector rejects; every event carries at least an empty object.
	if parameters == nil {
		parameters = map[string]string{}
	}

	c.buffer.Enqueue(Event{
		ID:         uuid.NewString(),
		DeviceID:   c.deviceID,
		EventKind:  eventKind,
		CreatedAt:  time.Now().Unix(),
		Parameters: parameters,
	})
}

// Start resumes any previously suspended queue and begins the
// periodic flush loop.
func (c *Client) Start(ctx context.Context) {
	c.Resume()
	c.started = true

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.Flush(ctx)
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			}
		}
	}()
}

// Flush attempts to send the next pending batch immediately.
func (c *Client) Flush(ctx context.Context) {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()
	c.transmitter.Flush(ctx)
}

// Stop halts the flush loop, makes a final delivery attempt and
// suspends whatever is still pending.
func (c *Client) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.stop)
		if c.started {
			<-c.done
		}
	})

	c.Flush(ctx)
	return c.Suspend()
}

// Suspend parks the pending queue in the durable slot. Call it when
// the hosting process is about to be suspended.
func (c *Client) Suspend() error {
	if c.store == nil {
		return nil
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()
	return c.store.Save(c.buffer)
}

// Resume restores a previously suspended queue, consuming the slot.
func (c *Client) Resume() {
	if c.store == nil {
		return
	}

	c.flushMu.Lock()
	defer c.flushMu.Unlock()
	c.buffer.Append(c.store.Load())
}

// Pending returns the number of events waiting to be sent.
func (c *Client) Pending() int {
	return c.buffer.Len()
}
