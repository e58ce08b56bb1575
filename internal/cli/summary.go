package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/forPelevin/shortreel/internal/pipeline"
)

func renderSummary(w io.Writer, s pipeline.Summary) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Scene", "Narration", "Segment", "Subtitles", "Attempts"})
	subtitled := 0
	for _, seg := range s.Segments {
		subs := "no"
		if seg.Subtitles {
			subs = "yes"
			subtitled++
		}
		tw.AppendRow(table.Row{seg.SceneNumber, seconds(seg.Narration), seconds(seg.Total), subs, seg.Attempts})
	}
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d scenes", len(s.Segments)),
		"",
		seconds(s.Artifact.Duration),
		fmt.Sprintf("%d/%d", subtitled, len(s.Segments)),
		"",
	})
	tw.Render()

	_, err := fmt.Fprintf(w, "%s (%s, %s) run %s\n", s.OutPath, s.Artifact.MIME, humanize.Bytes(uint64(len(s.Artifact.Data))), s.RunID)
	return err
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
