package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := Configuration("unknown column").WithColumn("carat")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrIO))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrConfiguration))
	assert.Equal(t, KindConfiguration, KindOf(wrapped))
}

func TestErrorMessageCarriesContext(t *testing.T) {
	err := IO(os.ErrNotExist, "/tmp/x.csv", "open source").In(StageIngest)
	msg := err.Error()
	assert.Contains(t, msg, "io error")
	assert.Contains(t, msg, "[ingest]")
	assert.Contains(t, msg, `path="/tmp/x.csv"`)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInStageKeepsExistingStage(t *testing.T) {
	err := Fit("Lasso", errors.New("boom"), "fit").In(StageEvaluate)
	out := InStage(err, StageSelect, KindUnknown)
	assert.Equal(t, StageEvaluate, StageOf(out))

	bare := Configuration("bad fraction")
	out = InStage(bare, StageSplit, KindUnknown)
	assert.Equal(t, StageSplit, StageOf(out))
}

func TestInStageWrapsForeignErrors(t *testing.T) {
	base := errors.New("disk full")
	out := InStage(base, StagePersist, KindIO)
	require.Error(t, out)
	assert.True(t, errors.Is(out, ErrIO))
	assert.True(t, errors.Is(out, base))
	assert.Equal(t, StagePersist, StageOf(out))
	assert.Nil(t, InStage(nil, StagePersist, KindIO))
}
