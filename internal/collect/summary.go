package collect

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/specialistvlad/stagegrid/internal/model"
)

// Summary counts analyzed stages by status.
type Summary struct {
	Total    int
	ByStatus map[model.AnalysisStatus]int
	// Failed lists the failed stages with their recorded file names.
	Failed []model.Analysis
	// FailedIDs holds the qualified names matching Failed.
	FailedIDs []string
}

// Summarize builds a Summary from an analyzed document.
func Summarize(analyzed map[string]model.Analysis) Summary {
	s := Summary{Total: len(analyzed), ByStatus: make(map[model.AnalysisStatus]int)}

	ids := make([]string, 0, len(analyzed))
	for id := range analyzed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		a := analyzed[id]
		s.ByStatus[a.Status]++
		if a.Status == model.AnalysisFailed {
			s.Failed = append(s.Failed, a)
			s.FailedIDs = append(s.FailedIDs, id)
		}
	}
	return s
}

// Write prints the summary as aligned text.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "stages\t%d\n", s.Total)

	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(tw, "%s\t%d\n", status, s.ByStatus[model.AnalysisStatus(status)])
	}

	if len(s.Failed) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "FAILED STAGE\tFILE\tREASON")
		for i, a := range s.Failed {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.FailedIDs[i], a.Filename, a.Content)
		}
	}
	return tw.Flush()
}
