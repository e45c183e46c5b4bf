// Package monitor wires a monitoring session together: PR fetch, issue link
// discovery, the webhook server, the forwarder subprocess, and the event
// stream.
package monitor

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/google/uuid"

	"github.com/mattjoyce/prmon/internal/config"
	"github.com/mattjoyce/prmon/internal/events"
	"github.com/mattjoyce/prmon/internal/gh"
	"github.com/mattjoyce/prmon/internal/links"
	"github.com/mattjoyce/prmon/internal/log"
	"github.com/mattjoyce/prmon/internal/webhook"
)

const secretLength = 32

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Options configures a monitoring session.
type Options struct {
	Owner string
	Repo  string
	PR    int

	Config *config.Config

	// Out receives the NDJSON event stream, one JSON object per event.
	// Nil disables streaming (the hub still receives every event).
	Out io.Writer

	Logger *slog.Logger
}

// Session monitors one pull request for its lifetime.
type Session struct {
	opts   Options
	id     string
	client *gh.Client
	hub    *events.Hub
	logger *slog.Logger

	shutdownOnce sync.Once

	// Populated during Run.
	fwd         *gh.Forwarder
	cancelServe context.CancelFunc
	serveErr    chan error
	cancelSub   func()
}

// New creates a Session. Nil Config selects defaults.
func New(opts Options) *Session {
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	if opts.Logger == nil {
		opts.Logger = log.WithComponent("monitor")
	}
	id := uuid.NewString()
	logger := opts.Logger.With("session_id", id)
	return &Session{
		opts:   opts,
		id:     id,
		client: gh.NewClient(opts.Config.Monitor.GHPath, logger),
		hub:    events.NewHub(0),
		logger: logger,
	}
}

// ID returns the session identifier used in log lines.
func (s *Session) ID() string {
	return s.id
}

// Hub exposes the event hub for additional consumers (e.g. the TUI).
func (s *Session) Hub() *events.Hub {
	return s.hub
}

// Run executes the session until ctx is cancelled or a component fails.
// Returns nil on a clean signal-driven shutdown, an error on startup failure
// or unexpected component exit.
func (s *Session) Run(ctx context.Context) error {
	cfg := s.opts.Config

	pr, err := s.client.PullRequest(ctx, s.opts.Owner, s.opts.Repo, s.opts.PR)
	if err != nil {
		return err
	}
	s.logger.Info("monitoring pull request",
		"repo", s.opts.Owner+"/"+s.opts.Repo,
		"pr", s.opts.PR,
		"title", pr.Title,
		"state", pr.State,
	)

	discoverer := links.NewDiscoverer(s.client.IssueFetcher(), cfg.Monitor.MaxLinkDepth, s.logger)
	linked := discoverer.Discover(ctx, pr.Body, s.opts.Owner, s.opts.Repo)
	if linked.Len() > 0 {
		s.logger.Info("discovered linked issues", "issues", linked.Sorted())
	}

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("generate webhook secret: %w", err)
	}

	srv := webhook.New(webhook.Config{
		TargetPR:     s.opts.PR,
		LinkedIssues: linked,
		Secret:       secret,
		Host:         cfg.Monitor.Host,
	}, s.hub.Publish, s.onServerError, s.logger)

	if err := srv.Listen(); err != nil {
		return err
	}

	serveCtx, cancelServe := context.WithCancel(context.Background())
	s.cancelServe = cancelServe
	s.serveErr = make(chan error, 1)
	go func() {
		s.serveErr <- srv.Serve(serveCtx)
	}()

	fwd, err := gh.StartForwarder(gh.ForwarderOptions{
		Bin:    cfg.Monitor.GHPath,
		Owner:  s.opts.Owner,
		Repo:   s.opts.Repo,
		Events: cfg.Monitor.Events,
		URL:    fmt.Sprintf("http://127.0.0.1:%d/", srv.Port()),
		Secret: secret,
	}, s.logger)
	if err != nil {
		s.Shutdown()
		return err
	}
	s.fwd = fwd

	if s.opts.Out != nil {
		sub, cancelSub := s.hub.Subscribe()
		s.cancelSub = cancelSub
		go s.streamEvents(sub)
	}

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		s.Shutdown()
		return nil
	case err := <-s.serveErr:
		s.serveErr = nil
		s.Shutdown()
		return fmt.Errorf("webhook server exited: %w", err)
	case <-fwd.Done():
		s.Shutdown()
		if err := fwd.Err(); err != nil {
			return fmt.Errorf("webhook forwarder exited: %w", err)
		}
		return fmt.Errorf("webhook forwarder exited unexpectedly")
	}
}

// Shutdown tears the session down: forwarder first, then the server, then
// the event stream. Idempotent; a second call while one is in progress is a
// no-op.
func (s *Session) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.fwd != nil {
			s.fwd.Stop()
		}
		if s.cancelServe != nil {
			s.cancelServe()
			if s.serveErr != nil {
				<-s.serveErr
			}
		}
		if s.cancelSub != nil {
			s.cancelSub()
		}
		s.logger.Info("session stopped")
	})
}

// streamEvents writes each published event to the output as one line of
// JSON. Encoding failures are logged and the stream continues.
func (s *Session) streamEvents(sub <-chan events.Envelope) {
	enc := json.NewEncoder(s.opts.Out)
	for env := range sub {
		if err := enc.Encode(env.Event); err != nil {
			s.logger.Error("failed to encode event", "error", err)
		}
	}
}

func (s *Session) onServerError(err error) {
	s.logger.Error("webhook server internal error", "error", err)
}

// generateSecret returns a random 32-character alphanumeric secret for
// signing forwarded deliveries.
func generateSecret() (string, error) {
	alphabetLen := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, secretLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}
