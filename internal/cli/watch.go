package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/monitor"
	"github.com/yildizm/ResumeScreen/internal/session"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-classify a resume file whenever it changes",
		Long: `Analyze a resume file, then analyze it again each time it is saved.

Uses file system notifications to detect changes. Changes made while a
request is in flight are picked up once its result has been printed.
Press Ctrl+C to stop watching.

Examples:
  resumescreen watch resume.txt
  resumescreen watch -o json cv.pdf
  resumescreen watch --stats resume.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "print request timings to stderr on exit")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(expandHome(args[0]))
	if err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	if err := validateFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	cfg := GetGlobalConfig()
	log := newLogger(cmd.ErrOrStderr())
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(filepath.Dir(path), log)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	stats := monitor.New()
	svc := monitor.Instrument(client, stats)
	if showStats {
		defer printStats(cmd.ErrOrStderr(), cfg, stats)
	}

	ctrl := newController(cfg, log)
	analyzeOnce := func() {
		state := analyzeFile(ctx, ctrl, svc, path)
		if err := writeOutcome(cmd, cfg, state.Outcome); err != nil && !errors.Is(err, errAnalysisFailed) {
			log.Error("failed to write result: %v", err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", path)
	analyzeOnce()

	return watchLoop(ctx, watcher, path, log, func() {
		printChangeHeader(cmd.ErrOrStderr(), filepath.Base(path))
		analyzeOnce()
	})
}

// analyzeFile selects path in the session and dispatches it
func analyzeFile(ctx context.Context, ctrl *session.Controller, p session.Predictor, path string) session.State {
	ctrl.Clear()
	job := ctrl.SelectFile(session.FileBlob{Path: path})
	if job != nil {
		content, err := job.Run()
		ctrl.CompleteDecode(job, content, err)
	}

	if state := ctrl.State(); state.Phase == session.Displaying {
		return state
	}
	state, _ := ctrl.Dispatch(ctx, p)
	return state
}

// watchLoop calls onChange for each batch of writes to target until ctx ends.
// Events that arrive while onChange runs are coalesced into one more call.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, log *logger.Logger, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			log.Debug("stopping watch")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isChangeOf(event, target) {
				continue
			}
			log.DebugWithFields("file changed", logFields("op", event.Op.String()))

			for changed := true; changed; changed = drainChanges(watcher, target) {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// drainChanges empties the event queue and reports whether it held a change
// of target
func drainChanges(watcher *fsnotify.Watcher, target string) bool {
	changed := false
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return changed
			}
			if isChangeOf(event, target) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// isChangeOf reports whether event rewrote target. Editors that save by
// renaming a temp file over the original produce Create instead of Write.
func isChangeOf(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// createWatcher creates a watcher on dir
func createWatcher(dir string, log *logger.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher, log)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.Warn("failed to close watcher: %v", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func printChangeHeader(w io.Writer, name string) {
	fmt.Fprintf(w, "\n── %s changed at %s ──\n", name, time.Now().Format("15:04:05"))
}
