package cli

import (
	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeScreen/internal/ui"
)

func newUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Start the interactive terminal UI",
		Long: `Start the interactive terminal UI.

Type or paste resume text, or press ctrl+o to open a .txt or .pdf file, then
press ctrl+r to analyze. Diagnostics go to output.log_file when configured.`,
		Args: cobra.NoArgs,
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	sink, closeSink, err := openLogFile(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeSink()

	log := newLogger(sink)
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	return ui.Run(ui.Options{
		Controller: newController(cfg, log),
		Service:    client,
		Renderer:   newRenderer(cfg, "text"),
		Logger:     log,
	})
}
