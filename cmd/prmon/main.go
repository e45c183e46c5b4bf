package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/prmon/internal/config"
	"github.com/mattjoyce/prmon/internal/log"
	"github.com/mattjoyce/prmon/internal/monitor"
	"github.com/mattjoyce/prmon/internal/tui"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "watch":
		return runWatch(args)
	case "version", "--version":
		return runVersion(args)
	case "help", "--help", "-h":
		printUsage()
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	repoFlag := fs.String("repo", "", "Repository as owner/repo (when the PR is given as a bare number)")
	configPath := fs.String("config", "", "Path to configuration file")
	useTUI := fs.Bool("tui", false, "Show the live terminal view instead of the NDJSON stream")
	maxDepth := fs.Int("max-depth", 0, "Override the issue link discovery depth")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: prmon watch <owner/repo#N | N --repo owner/repo> [flags]")
		return 1
	}

	owner, repo, number, err := parsePRRef(fs.Arg(0), *repoFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid PR reference: %v\n", err)
		return 1
	}

	cfg := config.Defaults()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			return 1
		}
	}
	if *maxDepth > 0 {
		cfg.Monitor.MaxLinkDepth = *maxDepth
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("cli")

	if *configPath != "" {
		if fp, err := config.Fingerprint(*configPath); err == nil {
			logger.Debug("loaded config", "path", *configPath, "blake3", fp)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
		// Further signals are ignored while shutdown is in progress.
		for range sigCh {
		}
	}()

	var out io.Writer
	if !*useTUI {
		out = os.Stdout
	}

	session := monitor.New(monitor.Options{
		Owner:  owner,
		Repo:   repo,
		PR:     number,
		Config: cfg,
		Out:    out,
		Logger: log.WithComponent("monitor"),
	})

	if *useTUI {
		return runWatchTUI(ctx, cancel, session, owner+"/"+repo, number)
	}

	if err := session.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runWatchTUI runs the session and the terminal view concurrently. Quitting
// either side stops the other.
func runWatchTUI(ctx context.Context, cancel context.CancelFunc, session *monitor.Session, repo string, pr int) int {
	sessionErr := make(chan error, 1)
	go func() {
		sessionErr <- session.Run(ctx)
	}()

	p := tea.NewProgram(tui.New(repo, pr, session.Hub()))
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		cancel()
		<-sessionErr
		return 1
	}

	cancel()
	if err := <-sessionErr; err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parsePRRef parses "owner/repo#N", or a bare PR number combined with a
// --repo owner/repo flag.
func parsePRRef(ref, repoFlag string) (owner, repo string, number int, err error) {
	if before, num, found := strings.Cut(ref, "#"); found {
		o, r, ok := strings.Cut(before, "/")
		if !ok || o == "" || r == "" {
			return "", "", 0, fmt.Errorf("expected owner/repo#N, got %q", ref)
		}
		n, convErr := strconv.Atoi(num)
		if convErr != nil || n <= 0 {
			return "", "", 0, fmt.Errorf("invalid PR number in %q", ref)
		}
		return o, r, n, nil
	}

	n, convErr := strconv.Atoi(ref)
	if convErr != nil || n <= 0 {
		return "", "", 0, fmt.Errorf("invalid PR number %q", ref)
	}
	o, r, ok := strings.Cut(repoFlag, "/")
	if !ok || o == "" || r == "" {
		return "", "", 0, fmt.Errorf("a bare PR number requires --repo owner/repo")
	}
	return o, r, n, nil
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output version metadata as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Usage: prmon version [--json]")
		return 1
	}

	info := currentVersionInfo()

	if *jsonOut {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render version JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("prmon %s\n", info.Version)
	fmt.Printf("commit: %s\n", info.Commit)
	fmt.Printf("built_at: %s\n", info.BuildTime)
	return 0
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   strings.TrimSpace(version),
		Commit:    "unknown",
		BuildTime: "unknown",
	}

	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	resolvedCommit := strings.TrimSpace(gitCommit)
	if resolvedCommit == "" || resolvedCommit == "unknown" {
		resolvedCommit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if resolvedCommit != "" {
		info.Commit = shortenCommit(resolvedCommit)
	}

	resolvedBuildTime := strings.TrimSpace(buildDate)
	if resolvedBuildTime == "" || resolvedBuildTime == "unknown" {
		resolvedBuildTime = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if normalizedBuildTime, ok := normalizeBuildTimeUTC(resolvedBuildTime); ok {
		info.BuildTime = normalizedBuildTime
	}

	return info
}

func shortenCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

func normalizeBuildTimeUTC(raw string) (string, bool) {
	if raw == "" || raw == "unknown" {
		return "", false
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", false
	}

	return t.UTC().Format(time.RFC3339), true
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func printUsage() {
	fmt.Print(`prmon - Real-time pull request monitor

Streams CI, review, and comment events for one pull request as they happen,
using GitHub webhooks forwarded to a local server.

Usage:
  prmon watch <owner/repo#N> [flags]
  prmon watch <N> --repo owner/repo [flags]
  prmon version [--json]
  prmon help

Watch flags:
  --repo owner/repo   Repository (when the PR is a bare number)
  --config PATH       Configuration file (YAML)
  --tui               Live terminal view instead of the NDJSON stream
  --max-depth N       Issue link discovery depth (default 3)

Events are written to stdout as one JSON object per line. Logs go to stderr.
Requires the GitHub CLI (gh) with the webhook extension.
`)
}
