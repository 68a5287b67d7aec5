package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/go-termfmt"
)

// FormatText renders a snapshot as a tree per operation
func FormatText(metrics []OperationMetrics, opts *termfmt.TerminalOptions) string {
	if opts == nil {
		opts = termfmt.DefaultOptions()
	}

	var b strings.Builder
	b.WriteString("Request timings\n")
	if len(metrics) == 0 {
		b.WriteString("└─ no requests made\n")
		return b.String()
	}

	items := make([]termfmt.TreeItem, 0, len(metrics))
	for i, m := range metrics {
		items = append(items, termfmt.TreeItem{
			Label: string(m.Operation),
			Value: fmt.Sprintf("%d calls, %d failed", m.Count, m.ErrorCount),
			Children: []termfmt.TreeItem{
				{Label: "avg", Value: round(m.AvgTime()).String()},
				{Label: "min", Value: round(time.Duration(m.MinTime)).String()},
				{Label: "max", Value: round(time.Duration(m.MaxTime)).String(), Last: true},
			},
			Last: i == len(metrics)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, opts))
	b.WriteString("\n")
	return b.String()
}

func round(d time.Duration) time.Duration {
	if d > time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(time.Microsecond)
}
