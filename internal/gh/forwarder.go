package gh

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// terminationGracePeriod is the time we wait after SIGTERM before SIGKILL.
const terminationGracePeriod = 5 * time.Second

// ForwarderOptions configures the webhook forwarder subprocess.
type ForwarderOptions struct {
	// Bin is the gh binary (default "gh").
	Bin string

	Owner string
	Repo  string

	// Events are the webhook event types to subscribe to.
	Events []string

	// URL is the local endpoint deliveries are relayed to.
	URL string

	// Secret signs relayed deliveries. Never logged.
	Secret string
}

// Forwarder is a running `gh webhook forward` subprocess relaying GitHub
// webhook deliveries to the local server.
type Forwarder struct {
	cmd    *exec.Cmd
	logger *slog.Logger

	stopOnce sync.Once
	done     chan struct{}
	waitErr  error
}

// StartForwarder spawns the forwarder subprocess. Its output goes to stderr
// so stdout stays reserved for the event stream.
func StartForwarder(opts ForwarderOptions, logger *slog.Logger) (*Forwarder, error) {
	bin := opts.Bin
	if bin == "" {
		bin = "gh"
	}

	args := []string{
		"webhook", "forward",
		"--repo=" + opts.Owner + "/" + opts.Repo,
		"--events=" + strings.Join(opts.Events, ","),
		"--url=" + opts.URL,
	}
	if opts.Secret != "" {
		args = append(args, "--secret="+opts.Secret)
	}

	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	logger.Info("starting webhook forwarder",
		"repo", opts.Owner+"/"+opts.Repo,
		"events", strings.Join(opts.Events, ","),
		"url", opts.URL,
	)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start webhook forwarder: %w", err)
	}

	f := &Forwarder{
		cmd:    cmd,
		logger: logger,
		done:   make(chan struct{}),
	}
	go func() {
		f.waitErr = cmd.Wait()
		close(f.done)
	}()
	return f, nil
}

// Done is closed when the subprocess exits, expectedly or not.
func (f *Forwarder) Done() <-chan struct{} {
	return f.done
}

// Err returns the subprocess exit error. Only valid after Done is closed.
func (f *Forwarder) Err() error {
	return f.waitErr
}

// Stop terminates the subprocess: SIGTERM, a grace period, then SIGKILL.
// Safe to call multiple times; only the first call acts.
func (f *Forwarder) Stop() {
	f.stopOnce.Do(func() {
		select {
		case <-f.done:
			return
		default:
		}

		f.logger.Info("stopping webhook forwarder")
		if f.cmd.Process != nil {
			if err := f.cmd.Process.Signal(syscall.SIGTERM); err != nil {
				f.logger.Error("failed to send SIGTERM to forwarder", "error", err)
			}
		}

		grace := time.NewTimer(terminationGracePeriod)
		defer grace.Stop()

		select {
		case <-f.done:
			f.logger.Debug("forwarder exited after SIGTERM")
		case <-grace.C:
			f.logger.Warn("forwarder did not exit after SIGTERM, sending SIGKILL")
			if f.cmd.Process != nil {
				if err := f.cmd.Process.Kill(); err != nil {
					f.logger.Error("failed to send SIGKILL to forwarder", "error", err)
				}
			}
			<-f.done
		}
	})
}
