// Package train evaluates candidate regressors on held-out data and selects
// the best one.
package train

import "fmt"

// Score is one candidate's held-out R².
type Score struct {
	Name string
	R2   float64
}

// Failure records a candidate that produced no score.
type Failure struct {
	Name string
	Err  error
}

// ScoreReport maps candidate names to scores and keeps catalog order for
// iteration. Failed candidates are tracked separately and never scored.
type ScoreReport struct {
	entries  []Score
	index    map[string]int
	failures []Failure
}

func NewScoreReport() *ScoreReport {
	return &ScoreReport{index: make(map[string]int)}
}

// Add appends a score. Names are unique.
func (r *ScoreReport) Add(name string, r2 float64) error {
	if _, dup := r.index[name]; dup {
		return fmt.Errorf("score report: duplicate candidate %q", name)
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Score{Name: name, R2: r2})
	return nil
}

// Fail records a candidate failure.
func (r *ScoreReport) Fail(name string, err error) {
	r.failures = append(r.failures, Failure{Name: name, Err: err})
}

// Get returns the score of name.
func (r *ScoreReport) Get(name string) (float64, bool) {
	i, ok := r.index[name]
	if !ok {
		return 0, false
	}
	return r.entries[i].R2, true
}

// Names returns the scored candidates in catalog order.
func (r *ScoreReport) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// Scores returns a copy of the entries in catalog order.
func (r *ScoreReport) Scores() []Score { return append([]Score(nil), r.entries...) }

// Failures returns the failed candidates in catalog order.
func (r *ScoreReport) Failures() []Failure { return append([]Failure(nil), r.failures...) }

func (r *ScoreReport) Len() int { return len(r.entries) }
