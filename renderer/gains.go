package renderer

import (
	"github.com/etnz/gains"
)

// GainsMarkdown renders the realized and unrealized totals of r.
func GainsMarkdown(r *gains.Report) string {
	return RenderGains(NewGains(r))
}
