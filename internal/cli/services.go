package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/yildizm/ResumeScreen/internal/config"
	"github.com/yildizm/ResumeScreen/internal/emoji"
	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/monitor"
	"github.com/yildizm/ResumeScreen/internal/render"
	"github.com/yildizm/ResumeScreen/internal/service"
	"github.com/yildizm/ResumeScreen/internal/session"
	"github.com/yildizm/ResumeScreen/internal/ui"
	"github.com/yildizm/go-termfmt"
)

// newLogger creates the command logger, writing to w
func newLogger(w io.Writer) *logger.Logger {
	log := logger.New("cli", isVerbose)
	log.SetOutput(w)
	return log
}

// newClient builds a service client from configuration
func newClient(cfg *config.Config, log *logger.Logger) (*service.Client, error) {
	sc := service.DefaultConfig()
	sc.BaseURL = cfg.Service.BaseURL
	sc.Timeout = cfg.Service.Timeout
	sc.HealthTimeout = cfg.Service.HealthTimeout
	sc.MaxUploadBytes = cfg.Input.MaxFileBytes
	if cfg.Service.UserAgent != "" {
		sc.UserAgent = cfg.Service.UserAgent
	}

	client, err := service.New(sc, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create service client: %w", err)
	}
	return client, nil
}

// newController creates a session with the configured input limits
func newController(cfg *config.Config, log *logger.Logger) *session.Controller {
	return session.NewController(session.NewInputManager(cfg.Input.MaxFileBytes), log)
}

// newRenderer returns the renderer for format, honoring color settings
func newRenderer(cfg *config.Config, format string) render.Renderer {
	return render.New(format, render.Options{
		Color: colorEnabled(cfg),
		Emoji: !emoji.IsEmojiDisabled(),
	})
}

// colorEnabled resolves the color mode against the environment
func colorEnabled(cfg *config.Config) bool {
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return !ui.IsColorDisabled() && isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// openLogFile opens the TUI diagnostics sink. An empty path discards logs.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	// #nosec G304 - path comes from the user's configuration
	f, err := os.OpenFile(expandHome(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// printStats writes the request timing report collected by c
func printStats(w io.Writer, cfg *config.Config, c *monitor.Collector) {
	opts := termfmt.DefaultOptions()
	opts.Color = cfg.Output.ColorMode == "always"
	opts.Emoji = !emoji.IsEmojiDisabled()
	fmt.Fprint(w, "\n"+monitor.FormatText(c.Snapshot(), opts))
}
