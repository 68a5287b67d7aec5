package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeScreen/internal/config"
	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/monitor"
	"github.com/yildizm/ResumeScreen/internal/render"
	"github.com/yildizm/ResumeScreen/internal/session"
)

// errAnalysisFailed is returned after a Failure outcome has been printed
var errAnalysisFailed = errors.New("analysis failed")

var (
	analyzeText       string
	analyzeQuery      string
	analyzeOutputFile string
	showStats         bool
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify a resume file, text, or stdin",
		Long: `Send one resume to the classification service and print the result.

A .pdf file is uploaded as-is; any other file is read as text and uploaded.
Without a file or --text, resume text is read from stdin.

Examples:
  resumescreen analyze resume.pdf
  resumescreen analyze --text "Senior Go engineer with 8 years of experience"
  cat resume.txt | resumescreen analyze -o json
  resumescreen analyze resume.txt --query "result.top_predictions[].category"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeText, "text", "t", "", "resume text to analyze")
	cmd.Flags().StringVarP(&analyzeQuery, "query", "q", "", "JMESPath expression applied to the JSON result")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print request timings to stderr")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && cmd.Flags().Changed("text") {
		return fmt.Errorf("use either a file or --text, not both")
	}
	if analyzeQuery != "" && !render.ValidQuery(analyzeQuery) {
		return fmt.Errorf("invalid JMESPath expression: %s", analyzeQuery)
	}

	cfg := GetGlobalConfig()
	log := newLogger(cmd.ErrOrStderr())

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	stats := monitor.New()
	svc := monitor.Instrument(client, stats)
	if showStats {
		defer printStats(cmd.ErrOrStderr(), cfg, stats)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if log.IsVerbose() {
		report := session.Probe(ctx, svc, log)
		if note := report.Note(); note != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", note)
		}
	}

	ctrl := newController(cfg, log)
	if err := loadInput(ctrl, cmd.InOrStdin(), args, cmd.Flags().Changed("text")); err != nil {
		return err
	}

	state := ctrl.State()
	if state.Phase != session.Displaying {
		state, _ = ctrl.Dispatch(ctx, svc)
	}

	return writeOutcome(cmd, cfg, state.Outcome)
}

// loadInput moves the requested input into the session. A failed text file
// read leaves the session displaying the decode failure.
func loadInput(ctrl *session.Controller, stdin io.Reader, args []string, textSet bool) error {
	if len(args) > 0 {
		path := expandHome(args[0])
		if err := validateFilePath(path); err != nil {
			return fmt.Errorf("invalid file path: %w", err)
		}

		job := ctrl.SelectFile(session.FileBlob{Path: path})
		if job != nil {
			content, err := job.Run()
			ctrl.CompleteDecode(job, content, err)
		}
		return nil
	}

	if textSet {
		return ctrl.SetText(analyzeText)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return ctrl.SetText(string(data))
}

// writeOutcome renders the outcome and writes it to stdout or --output-file
func writeOutcome(cmd *cobra.Command, cfg *config.Config, outcome session.Outcome) error {
	output, err := formatOutcome(cfg, outcome)
	if err != nil {
		return err
	}

	if err := handleOutputDestination(cmd.OutOrStdout(), output); err != nil {
		return err
	}

	if _, failed := outcome.(session.Failure); failed {
		return errAnalysisFailed
	}
	return nil
}

func formatOutcome(cfg *config.Config, outcome session.Outcome) ([]byte, error) {
	format := cfg.Output.DefaultFormat
	if analyzeQuery != "" {
		format = "json"
	}
	if analyzeOutputFile != "" && format == "text" {
		// no escape codes in files
		cfg = withColorMode(cfg, "never")
	}

	output, err := newRenderer(cfg, format).Render(outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to render result: %w", err)
	}

	if analyzeQuery != "" {
		output, err = render.Query(output, analyzeQuery)
		if err != nil {
			return nil, err
		}
		output = append(output, '\n')
	}
	return output, nil
}

func withColorMode(cfg *config.Config, mode string) *config.Config {
	c := *cfg
	c.Output.ColorMode = mode
	return &c
}

// handleOutputDestination writes output to the configured destination
func handleOutputDestination(stdout io.Writer, output []byte) error {
	if analyzeOutputFile == "" {
		_, err := stdout.Write(output)
		return err
	}

	if err := validateOutputFilePath(analyzeOutputFile); err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := os.WriteFile(analyzeOutputFile, output, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// validateFilePath validates that a file path is safe to read
func validateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// validateOutputFilePath validates that an output file path is safe to write
func validateOutputFilePath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// logFields is shorthand for single-field log calls
func logFields(key string, value interface{}) []logger.Field {
	return []logger.Field{logger.F(key, value)}
}
