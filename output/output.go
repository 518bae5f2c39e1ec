package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tubescribe/scribe"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	bodyStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

// Text writes a human readable listing of the report.
func Text(w io.Writer, r *scribe.Report) error {
	var sb strings.Builder
	if len(r.Records) == 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("No videos found for %q", r.Query)))
		sb.WriteString("\n")
	}
	for i, rec := range r.Records {
		if i > 0 {
			sb.WriteString("---\n")
		}
		sb.WriteString(titleStyle.Render("Title: "+rec.Title) + "\n")
		sb.WriteString("URL: " + urlStyle.Render(rec.URL) + "\n")
		if rec.Transcript == "" {
			sb.WriteString(mutedStyle.Render("Transcript: unavailable") + "\n")
			continue
		}
		sb.WriteString("Transcript:\n")
		sb.WriteString(bodyStyle.Render(styleTranscript(rec.Transcript)) + "\n")
	}
	for _, skipped := range r.Skipped {
		sb.WriteString(warningStyle.Render("Skipped: "+skipped.Error()) + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func styleTranscript(t string) string {
	lines := strings.Split(t, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			lines[i] = headerStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

type jsonReport struct {
	Query   string               `json:"query"`
	Records []scribe.VideoRecord `json:"records"`
	Skipped []jsonSkip           `json:"skipped,omitempty"`
}

type jsonSkip struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, r *scribe.Report) error {
	out := jsonReport{Query: r.Query, Records: r.Records}
	if out.Records == nil {
		out.Records = []scribe.VideoRecord{}
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, jsonSkip{Index: s.Index, Error: s.Err.Error()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
