package report

import (
	"fmt"
	"strings"

	"github.com/contre95/tagmend/src/music"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary renders a console summary of a finished run: outcome counts
// and one row per repaired tag.
func Summary(run *music.Run) string {
	stats := run.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s over %s: %d files, %d tags repaired, %d unrecoverable, %d unchanged, %d files without tags\n",
		run.ID, run.Root, stats.Files, stats.Repaired, stats.Unrecoverable, stats.Unchanged, stats.Skipped)

	if stats.Repaired == 0 {
		return b.String()
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"file", "tag", "original", "fixed"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	for _, rec := range run.Records {
		if !rec.Repaired() {
			continue
		}
		for _, field := range music.Fields {
			if rec.Outcomes[field] != music.OutcomeRepaired {
				continue
			}
			original, fixed := "", ""
			if v := rec.Original[field]; v != nil {
				original = *v
			}
			if v := rec.Fixed[field]; v != nil {
				fixed = *v
			}
			tw.AppendRow(table.Row{rec.Path, string(field), original, fixed})
		}
	}

	b.WriteString(tw.Render())
	b.WriteByte('\n')
	return b.String()
}
