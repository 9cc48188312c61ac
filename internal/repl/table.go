package repl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hpungsan/aas/internal/ops"
)

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	return tw
}

// alignRight right-aligns the given 1-based columns.
func alignRight(tw table.Writer, columns ...int) {
	configs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		configs = append(configs, table.ColumnConfig{
			Number:      n,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
}

func renderInfo(info *ops.InfoOutput) string {
	var b strings.Builder
	b.WriteString("=== Current session ===\n")
	if info.Current == nil {
		b.WriteString("No Images Loaded\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Current Image: %s\n", info.Current.Key)
	b.WriteString("ALL IMAGES:\n")

	tw := newTable("", "KEY", "FILE", "SOURCE", "TARGET", "BRIGHTNESS", "CONTRAST")
	for _, img := range info.Images {
		marker := ""
		if img.Key == info.Current.Key {
			marker = "*"
		}
		tw.AppendRow(table.Row{
			marker,
			img.Key,
			img.Filename,
			dims(img.SourceWidth, img.SourceHeight),
			dims(img.TargetWidth, img.TargetHeight),
			level(img.Brightness),
			level(img.Contrast),
		})
	}
	alignRight(tw, 4, 5, 6, 7)
	b.WriteString(tw.Render())
	b.WriteString("\n")
	return b.String()
}

func renderSessions(out *ops.ListSessionsOutput) string {
	if len(out.Items) == 0 {
		return "No saved sessions\n"
	}
	tw := newTable("NAME", "IMAGES", "CURRENT", "UPDATED")
	for _, s := range out.Items {
		tw.AppendRow(table.Row{
			s.Name,
			strconv.Itoa(s.ImageCount),
			s.CurrentKey,
			time.Unix(s.UpdatedAt, 0).Format("2006-01-02 15:04"),
		})
	}
	alignRight(tw, 2)
	return tw.Render() + "\n"
}

func dims(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

func level(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
