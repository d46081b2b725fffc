package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/parkalloc/core/allocation"
)

// FacilityCount is the number of vehicles placed at one facility.
type FacilityCount struct {
	FacilityID string `json:"facility_id"`
	Cars       int    `json:"cars"`
}

// Report is the serialisable view of an allocation result.
type Report struct {
	RunID        string          `json:"run_id"`
	Path         string          `json:"path"`
	SolverStatus string          `json:"solver_status"`
	Reason       string          `json:"reason,omitempty"`
	Objective    float64         `json:"objective"`
	Facilities   []FacilityCount `json:"facilities"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewReport converts a result to a Report stamped with ts.
func NewReport(res allocation.Result, ts time.Time) Report {
	counts := res.Counts()
	facilities := make([]FacilityCount, len(counts))
	for i, c := range counts {
		facilities[i] = FacilityCount{FacilityID: res.IDs[i], Cars: c}
	}
	return Report{
		RunID:        res.RunID,
		Path:         string(res.Path),
		SolverStatus: res.SolverStatus.String(),
		Reason:       res.Reason,
		Objective:    res.Objective,
		Facilities:   facilities,
		Timestamp:    ts.UTC(),
	}
}

// Headline is the notice naming the path that produced the report.
func (r Report) Headline() string {
	if r.Path == string(allocation.PathExact) {
		return "Optimal allocation of cars:"
	}
	return "Alternative allocation of cars:"
}

// WriteText writes the human-readable report: a headline followed by one
// "{facility_id}: {count} cars" line per facility.
func WriteText(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, r.Headline()); err != nil {
		return err
	}
	for _, f := range r.Facilities {
		if _, err := fmt.Fprintf(w, "%s: %d cars\n", f.FacilityID, f.Cars); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the report to w in JSON format.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per facility with the run metadata repeated.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "path", "facility_id", "cars"}); err != nil {
		return err
	}
	for _, f := range r.Facilities {
		rec := []string{r.RunID, r.Path, f.FacilityID, strconv.Itoa(f.Cars)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches to the writer matching format: "text", "json" or "csv".
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case "", "text":
		return WriteText(w, r)
	case "json":
		return WriteJSON(w, r)
	case "csv":
		return WriteCSV(w, r)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}
