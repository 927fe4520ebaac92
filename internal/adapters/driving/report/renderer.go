// Package report renders weekly summaries and activity listings for the
// terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

const chartHeight = 10

// Strava brand orange.
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FC4C02"))

// Renderer writes human-readable reports to a single output stream.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// RenderWeekly prints an ascii chart of weekly hours followed by a
// per-week table with a running total.
func (r *Renderer) RenderWeekly(buckets []domain.WeeklyBucket) error {
	if len(buckets) == 0 {
		fmt.Fprintln(r.out, "No activities found in the requested period.")
		return nil
	}

	fmt.Fprintln(r.out, titleStyle.Render("Weekly moving time"))
	fmt.Fprintln(r.out)

	hours := make([]float64, len(buckets))
	for i, b := range buckets {
		hours[i] = b.Hours
	}
	fmt.Fprintln(r.out, asciigraph.Plot(hours,
		asciigraph.Height(chartHeight),
		asciigraph.Precision(1),
		asciigraph.Caption("hours per week")))
	fmt.Fprintln(r.out)

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Week", "Hours", "Activities", "Total Hours"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var total float64
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		total += b.Hours
		rows = append(rows, []string{
			b.Week.Format("2006-01-02"),
			fmt.Sprintf("%.1f", b.Hours),
			fmt.Sprintf("%d", b.Activities),
			fmt.Sprintf("%.1f", total),
		})
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// RenderActivities prints a per-activity table, most recent last.
func (r *Renderer) RenderActivities(activities []domain.Activity) error {
	if len(activities) == 0 {
		fmt.Fprintln(r.out, "No activities found in the requested period.")
		return nil
	}

	fmt.Fprintln(r.out, titleStyle.Render("Activities"))
	fmt.Fprintln(r.out)

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Date", "Name", "Type", "Hours", "Distance (km)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{
			a.StartDate.Format("2006-01-02"),
			a.Name,
			a.Type,
			fmt.Sprintf("%.1f", a.MovingHours()),
			fmt.Sprintf("%.1f", a.Distance/1000),
		})
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
