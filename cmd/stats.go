package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/mlt-pathtracer/render"
	"github.com/olekukonko/tablewriter"
)

// displayStats renders a render.Stats breakdown as a table and logs it at
// Notice level.
func displayStats(stats render.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Worker", "Rows Rendered", "Frame %", "Render Time"})

	for _, w := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", w.ID),
			fmt.Sprintf("%d", w.RowsRendered),
			fmt.Sprintf("%.1f%%", w.FramePercent),
			w.RenderTime.String(),
		})
	}

	table.SetFooter([]string{
		"Totals", "", "Samples/px", fmt.Sprintf("%d", stats.SamplesPerPixel),
	})
	table.Render()

	logger.Noticef("render statistics\n%s", buf.String())

	if stats.ProposedMutations > 0 || stats.NewPathAttempts > 0 {
		logger.Noticef("new path attempts: %d, proposed mutations: %d, accepted mutations: %d",
			stats.NewPathAttempts, stats.ProposedMutations, stats.AcceptedMutations)
	}
}
