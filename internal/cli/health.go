package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeScreen/internal/emoji"
)

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the classification service is up",
		Long: `Query the service health endpoint and report whether it is reachable
and has its models loaded. Exits non-zero when the service is unreachable.`,
		Args: cobra.NoArgs,
		RunE: runHealth,
	}
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger(cmd.ErrOrStderr())

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	resp, err := client.Health(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "%s %s is unreachable\n", emoji.GetEmoji("error"), client.BaseURL())
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Fprintf(out, "%s Service: %s\n", emoji.GetEmoji("health"), client.BaseURL())
	fmt.Fprintf(out, "   Status: %s\n", resp.Status)
	if resp.ModelsLoaded {
		fmt.Fprintf(out, "   Models: %s loaded\n", emoji.GetEmoji("success"))
	} else {
		fmt.Fprintf(out, "   Models: %s not loaded\n", emoji.GetEmoji("warning"))
	}
	return nil
}
