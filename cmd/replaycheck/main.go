// Command replaycheck plays replay files twice from their headers and reports
// whether both runs end in the same state.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mctar/pasteroids/config"
	"github.com/mctar/pasteroids/game"
	"github.com/mctar/pasteroids/replay"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	verbose := flag.Bool("v", false, "Log session events while replaying")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: replaycheck [-config path] [-v] replay.json|replay.mpk ...")
		os.Exit(2)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	sessionLog := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		sessionLog = slog.Default()
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := check(cfg, path, sessionLog); err != nil {
			failed++
			slog.Error("replay check failed", "path", path, "error", err)
		}
	}

	slog.Info("replay check done", "files", flag.NArg(), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

var errMismatch = errors.New("digests differ between runs")

func check(cfg *config.Config, path string, logger *slog.Logger) error {
	data, err := replay.Load(path)
	if err != nil {
		return err
	}

	result, err := game.VerifyReplay(cfg, data, logger)
	if err != nil {
		var inv *game.InvariantError
		if errors.As(err, &inv) {
			slog.Error("invariant violation", "path", path, "tick", inv.Tick, "issues", len(inv.Issues))
		}
		return err
	}

	slog.Info("replay checked",
		"path", path,
		"ticks", result.Ticks,
		"score", result.Score,
		"wave", result.Wave,
		"digest", fmt.Sprintf("%016x", result.Digests[0]),
		"match", result.Match(),
	)
	if !result.Match() {
		return fmt.Errorf("%w: %016x vs %016x", errMismatch, result.Digests[0], result.Digests[1])
	}
	return nil
}
