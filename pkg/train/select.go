package train

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/artifact"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/model"
)

// Selector picks the best-scoring model and persists it.
type Selector struct {
	Candidates []model.Candidate // catalog, recorded in the bundle
	Columns    []string          // feature columns, recorded in the header
	RunID      string
	Log        logrus.FieldLogger
}

// Selection is the persisted winner.
type Selection struct {
	Name  string
	Score float64
	Path  string
	Model model.Regressor
}

// Best returns the highest score. Ties go to the earliest entry.
func Best(report *ScoreReport) (Score, error) {
	var best Score
	found := false
	for _, s := range report.entries {
		if math.IsNaN(s.R2) {
			continue
		}
		if !found || s.R2 > best.R2 {
			best, found = s, true
		}
	}
	if !found {
		msg := "no candidate produced a score"
		if f := report.Failures(); len(f) > 0 {
			names := make([]string, len(f))
			for i := range f {
				names[i] = f[i].Name
			}
			msg += "; failed: " + strings.Join(names, ", ")
		}
		return Score{}, errs.Selection("%s", msg).In(errs.StageSelect)
	}
	return best, nil
}

// Select returns the winner of report.
func (s *Selector) Select(report *ScoreReport) (Score, error) {
	return Best(report)
}

// Persist writes the fitted model of best to path together with its header.
func (s *Selector) Persist(best Score, models map[string]model.Regressor, path string) (*Selection, error) {
	m, ok := models[best.Name]
	if !ok {
		return nil, errs.Selection("no fitted model for %q", best.Name).WithCandidate(best.Name).In(errs.StageSelect)
	}

	bundle := &model.Bundle{Name: best.Name, Candidate: s.candidate(best.Name), Model: m}
	h := artifact.Header{
		Kind:    artifact.KindModel,
		RunID:   s.RunID,
		Columns: s.Columns,
		Name:    best.Name,
		Score:   best.R2,
	}
	if err := artifact.Save(path, h, bundle); err != nil {
		return nil, errs.InStage(err, errs.StagePersist, errs.KindIO)
	}

	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"stage": errs.StagePersist,
		"model": best.Name,
		"r2":    best.R2,
		"path":  path,
	}).Info("best model saved")
	return &Selection{Name: best.Name, Score: best.R2, Path: path, Model: m}, nil
}

// SelectAndPersist writes the best model in report to path.
func (s *Selector) SelectAndPersist(report *ScoreReport, models map[string]model.Regressor, path string) (*Selection, error) {
	best, err := s.Select(report)
	if err != nil {
		return nil, err
	}
	return s.Persist(best, models, path)
}

func (s *Selector) candidate(name string) model.Candidate {
	for _, c := range s.Candidates {
		if c.Name == name {
			return c
		}
	}
	return model.Candidate{Name: name}
}
