package performance

import (
	"context"
	"fmt"
	"strings"
)

type DraftContext struct {
	Request DraftRequest
	KPIs    []KPI
}

// DraftGenerator produces appraisal draft text. An external writing
// assistant can be plugged in behind this interface.
type DraftGenerator interface {
	Generate(ctx context.Context, in DraftContext) (string, error)
}

// TemplateDraftGenerator builds a structured draft without any external
// service.
type TemplateDraftGenerator struct{}

func (TemplateDraftGenerator) Generate(_ context.Context, in DraftContext) (string, error) {
	var b strings.Builder
	req := in.Request

	title := "Annual Performance Appraisal Report"
	if label := strings.TrimSpace(strings.TrimSpace(req.Period) + " " + yearLabel(req.Year)); label != "" {
		title += " (" + label + ")"
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	writeSection(&b, "Key Achievements", req.Achievements)
	writeSection(&b, "Challenges Faced", req.Challenges)
	writeSection(&b, "Goals for the Next Period", req.Goals)

	if len(in.KPIs) > 0 {
		summary := buildKPISummary(in.KPIs)
		b.WriteString("KPI Overview\n")
		fmt.Fprintf(&b, "- %d KPIs tracked, %d completed, %d at risk.\n",
			summary.Total, summary.ByStatus[KPIStatusCompleted], summary.AtRisk)
		fmt.Fprintf(&b, "- Average progress %.0f%%, average score %.2f.\n", summary.AverageProgress, summary.AverageScore)
		for _, k := range in.KPIs {
			if k.Status != KPIStatusCompleted {
				continue
			}
			fmt.Fprintf(&b, "- %s: achieved %s of %s%s (score %.2f).\n",
				k.Metric, trimFloat(k.AchievedValue), trimFloat(k.Target), unitSuffix(k.Unit), k.Score)
		}
		b.WriteString("\n")
	}

	b.WriteString("Summary\n")
	b.WriteString("Over this period I have worked towards the objectives above and will continue to build on these results.\n")
	return b.String(), nil
}

func writeSection(b *strings.Builder, heading, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	b.WriteString(heading)
	b.WriteString("\n")
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-* ")
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func yearLabel(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

func unitSuffix(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return ""
	}
	return " " + unit
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
