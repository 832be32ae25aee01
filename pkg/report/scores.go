// Package report writes the score table and charts of a pipeline run.
package report

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/train"
)

// Status values of a ScoreRow.
const (
	StatusScored = "scored"
	StatusFailed = "failed"
)

// ScoreRow is one line of the score CSV.
type ScoreRow struct {
	Rank     int     `csv:"rank"`
	Model    string  `csv:"model"`
	R2       float64 `csv:"r2"`
	Status   string  `csv:"status"`
	Selected bool    `csv:"selected"`
	Error    string  `csv:"error"`
}

// Rows ranks the scored candidates by R², best first, keeping catalog order
// among equal scores, then lists failed candidates with rank 0.
func Rows(r *train.ScoreReport, selected string) []ScoreRow {
	scores := r.Scores()
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].R2 > scores[j].R2 })

	rows := make([]ScoreRow, 0, len(scores)+len(r.Failures()))
	for i, s := range scores {
		rows = append(rows, ScoreRow{
			Rank:     i + 1,
			Model:    s.Name,
			R2:       s.R2,
			Status:   StatusScored,
			Selected: s.Name == selected,
		})
	}
	for _, f := range r.Failures() {
		row := ScoreRow{Model: f.Name, Status: StatusFailed}
		if f.Err != nil {
			row.Error = f.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteScores writes rows as CSV with a header line.
func WriteScores(path string, rows []ScoreRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errs.IO(err, path, "create report directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.IO(err, path, "create score report")
	}
	defer f.Close()

	if err := gocsv.Marshal(&rows, f); err != nil {
		return errs.IO(err, path, "write score report")
	}
	return nil
}

// ReadScores loads a CSV written by WriteScores.
func ReadScores(path string) ([]ScoreRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(err, path, "open score report")
	}
	defer f.Close()

	var rows []ScoreRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errs.IO(err, path, "parse score report")
	}
	return rows, nil
}
