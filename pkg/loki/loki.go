// Package loki batches log entries and pushes them to a Grafana Loki server.
package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Error(msg string, args ...any)
}

type Config struct {
	// Url of the push endpoint, e.g. https://example-prod.grafana.net/loki/api/v1/push
	Url string `validate:"required"`

	// BatchMaxSize is the number of entries that triggers an immediate push.
	BatchMaxSize int `validate:"gte=1"`

	// BatchMaxWait is how long a non-empty batch may wait before it is pushed.
	BatchMaxWait time.Duration `validate:"gte=1"`

	// Labels are attached to every stream.
	Labels map[string]string

	// StreamFields are entry fields promoted to stream labels. Keep them low-cardinality.
	StreamFields []string

	// TenantKey and TenantValue set a tenant header when both are present.
	TenantKey   string
	TenantValue string

	// Username and Password enable basic auth when both are present.
	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 1000
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type LogEntry struct {
	Level   string            `json:"level"`
	Message string            `json:"msg"`
	Caller  string            `json:"caller"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrBufferFull is returned by Push when the batching goroutine falls behind.
var ErrBufferFull = errors.New("loki buffer is full, entry dropped")

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type queuedEntry struct {
	at    time.Time
	entry LogEntry
}

// batch groups queued entries into streams keyed by their label set.
type batch struct {
	labels  map[string]string
	promote []string
	streams map[string]*stream
	size    int
}

func newBatch(labels map[string]string, promote []string) *batch {
	return &batch{labels: labels, promote: promote, streams: map[string]*stream{}}
}

func (b *batch) add(queued queuedEntry) {
	line, err := json.Marshal(queued.entry)
	if err != nil {
		return
	}

	labels := maps.Clone(b.labels)
	labels["level"] = queued.entry.Level
	for _, field := range b.promote {
		if value, ok := queued.entry.Fields[field]; ok {
			labels[field] = value
		}
	}

	key := streamKey(labels)
	s, ok := b.streams[key]
	if !ok {
		s = &stream{Stream: labels}
		b.streams[key] = s
	}
	s.Values = append(s.Values, [2]string{strconv.FormatInt(queued.at.UnixNano(), 10), string(line)})
	b.size++
}

func (b *batch) request() pushRequest {
	keys := slices.Sorted(maps.Keys(b.streams))
	request := pushRequest{Streams: make([]stream, 0, len(keys))}
	for _, key := range keys {
		request.Streams = append(request.Streams, *b.streams[key])
	}
	return request
}

func (b *batch) reset() {
	clear(b.streams)
	b.size = 0
}

func streamKey(labels map[string]string) string {
	var key strings.Builder
	for _, name := range slices.Sorted(maps.Keys(labels)) {
		key.WriteString(name)
		key.WriteByte('=')
		key.WriteString(labels[name])
		key.WriteByte(',')
	}
	return key.String()
}

type Pusher struct {
	config    *Config
	ctx       context.Context
	cancel    context.CancelFunc
	client    *http.Client
	quit      chan struct{}
	entries   chan queuedEntry
	waitGroup sync.WaitGroup
	batch     *batch
	logger    Logger
}

func New(ctx context.Context, cfg Config, logger Logger) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:  &cfg,
		ctx:     ctx,
		cancel:  cancel,
		client:  &http.Client{Timeout: 10 * time.Second},
		quit:    make(chan struct{}),
		entries: make(chan queuedEntry, cfg.BatchMaxSize),
		batch:   newBatch(cfg.Labels, cfg.StreamFields),
		logger:  logger,
	}

	p.waitGroup.Add(1)
	go p.run()
	return p, nil
}

// Push queues the entry for the next batch without blocking the caller.
// The entry keeps the time it was pushed at.
func (p *Pusher) Push(e LogEntry) error {
	select {
	case p.entries <- queuedEntry{at: time.Now(), entry: e}:
		return nil
	default:
		return ErrBufferFull
	}
}

// Stop pushes what is queued and stops the background goroutine.
func (p *Pusher) Stop() {
	close(p.quit)
	p.waitGroup.Wait()
	p.cancel()
}

func (p *Pusher) run() {
	defer p.waitGroup.Done()

	ticker := time.NewTicker(p.config.BatchMaxWait)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.quit:
			p.drain()
			p.flush()
			return
		case queued := <-p.entries:
			p.batch.add(queued)
			if p.batch.size >= p.config.BatchMaxSize {
				p.flush()
			}
		case <-ticker.C:
			p.flush()
		}
	}
}

func (p *Pusher) drain() {
	for {
		select {
		case queued := <-p.entries:
			p.batch.add(queued)
		default:
			return
		}
	}
}

func (p *Pusher) flush() {
	if p.batch.size == 0 {
		return
	}
	if err := p.send(p.batch.request()); err != nil {
		p.logger.Error("failed to send logs", "error", err)
	}
	p.batch.reset()
}

func (p *Pusher) send(request pushRequest) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(request); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(p.ctx, http.MethodPost, p.config.Url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.TenantKey != "" && p.config.TenantValue != "" {
		req.Header.Set(p.config.TenantKey, p.config.TenantValue)
	}
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected response from loki: %s, body: %s", resp.Status, string(body))
	}
	return nil
}
