package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeScreen/internal/emoji"
)

var categoriesFilter string

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories the service can predict",
		Long: `List every job category known to the classification service.

Use --filter to fuzzy-match category names, best matches first.

Examples:
  resumescreen categories
  resumescreen categories --filter devops`,
		Args: cobra.NoArgs,
		RunE: runCategories,
	}

	cmd.Flags().StringVarP(&categoriesFilter, "filter", "f", "", "fuzzy filter on category names")

	return cmd
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger(cmd.ErrOrStderr())

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	categories, err := client.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	out := cmd.OutOrStdout()
	if categoriesFilter == "" {
		sorted := append([]string(nil), categories...)
		sort.Strings(sorted)
		fmt.Fprintf(out, "%s %d categories\n", emoji.GetEmoji("category"), len(sorted))
		for _, c := range sorted {
			fmt.Fprintf(out, "  %s\n", c)
		}
		return nil
	}

	matches := fuzzy.Find(categoriesFilter, categories)
	if len(matches) == 0 {
		fmt.Fprintf(out, "No categories match %q\n", categoriesFilter)
		return nil
	}

	highlight := lipgloss.NewStyle().Bold(true).Underline(true)
	for _, m := range matches {
		fmt.Fprintf(out, "  %s\n", highlightMatch(m.Str, m.MatchedIndexes, highlight, colorEnabled(cfg)))
	}
	return nil
}

// highlightMatch emphasizes the matched byte positions of s
func highlightMatch(s string, indexes []int, style lipgloss.Style, color bool) string {
	if !color || len(indexes) == 0 {
		return s
	}

	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if matched[i] {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
