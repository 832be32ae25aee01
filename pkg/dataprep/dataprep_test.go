package dataprep

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NA", "NaN", " ", "null"} {
		assert.True(t, IsMissing(v), v)
	}
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing("Ideal"))
}

func TestParseNumeric(t *testing.T) {
	out, err := ParseNumeric([][]string{{"1.5", "NA"}, {" 2 ", ""}}, []string{"carat", "depth"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, out[0][0])
	assert.True(t, math.IsNaN(out[0][1]))
	assert.Equal(t, 2.0, out[1][0])

	_, err = ParseNumeric([][]string{{"abc"}}, []string{"carat"})
	require.Error(t, err)
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errs.KindConfiguration, e.Kind)
	assert.Equal(t, "carat", e.Column)
}

func TestParseTarget(t *testing.T) {
	y, err := ParseTarget([]string{"326", "334.5"}, "price")
	require.NoError(t, err)
	assert.Equal(t, []float64{326, 334.5}, y)

	_, err = ParseTarget([]string{"326", ""}, "price")
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestParseRejectsInfinity(t *testing.T) {
	for _, v := range []string{"Inf", "-Infinity", "inf", "+Inf"} {
		_, err := ParseNumeric([][]string{{"1", "2"}, {"3", v}}, []string{"carat", "depth"})
		require.Error(t, err, v)
		var e *errs.Error
		require.True(t, errors.As(err, &e), v)
		assert.Equal(t, errs.KindConfiguration, e.Kind)
		assert.Equal(t, "depth", e.Column)

		_, err = ParseTarget([]string{"326", v}, "price")
		require.True(t, errors.As(err, &e), v)
		assert.Equal(t, errs.KindConfiguration, e.Kind)
		assert.Equal(t, "price", e.Column)
	}

	// NaN spellings outside the missing tokens are still missing features,
	// but never a valid target
	out, err := ParseNumeric([][]string{{"NAN"}}, []string{"carat"})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0][0]))
	_, err = ParseTarget([]string{"NAN"}, "price")
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestMedianImputerUsesFitStatistics(t *testing.T) {
	nan := math.NaN()
	imp := NewMedianImputer([]string{"a", "b"})
	require.NoError(t, imp.Fit([][]float64{{1, 10}, {nan, 20}, {3, 30}, {5, nan}}))
	assert.Equal(t, []float64{3, 20}, imp.Statistics)

	out, err := imp.Transform([][]float64{{nan, nan}, {100, 200}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 20}, {100, 200}}, out)
}

func TestMedianImputerAllMissing(t *testing.T) {
	imp := NewMedianImputer([]string{"a"})
	err := imp.Fit([][]float64{{math.NaN()}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
	assert.Contains(t, err.Error(), `"a"`)
}

func TestMostFrequentImputer(t *testing.T) {
	imp := NewMostFrequentImputer([]string{"cut"})
	require.NoError(t, imp.Fit([][]string{{"Ideal"}, {""}, {"Ideal"}, {"Good"}}))
	out, err := imp.Transform([][]string{{"NA"}, {"Good"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Ideal"}, {"Good"}}, out)

	_, err = NewMostFrequentImputer(nil).Transform([][]string{{"x"}})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestOrdinalEncoder(t *testing.T) {
	enc, err := NewOrdinalEncoder([]string{"cut"}, [][]string{{"Fair", "Good", "Ideal"}})
	require.NoError(t, err)
	require.NoError(t, enc.Fit([][]string{{"Good"}, {"Ideal"}}))

	out, err := enc.Transform([][]string{{"Fair"}, {"Ideal"}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}, {2}}, out)

	v, ok := enc.Decode(0, 1)
	assert.True(t, ok)
	assert.Equal(t, "Good", v)
}

func TestOrdinalEncoderRejectsUnseenCategory(t *testing.T) {
	enc, err := NewOrdinalEncoder([]string{"cut"}, [][]string{{"Fair", "Good"}})
	require.NoError(t, err)

	err = enc.Fit([][]string{{"Good"}, {"Premium"}})
	require.Error(t, err)
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errs.KindConfiguration, e.Kind)
	assert.Equal(t, "cut", e.Column)
	assert.Contains(t, err.Error(), "Premium")

	require.NoError(t, enc.Fit([][]string{{"Good"}}))
	_, err = enc.Transform([][]string{{"Excellent"}})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestOrdinalEncoderValidatesOrderings(t *testing.T) {
	_, err := NewOrdinalEncoder([]string{"cut"}, [][]string{{"Fair", "Fair"}})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = NewOrdinalEncoder([]string{"cut"}, [][]string{{}})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))

	_, err = NewOrdinalEncoder([]string{"cut", "color"}, [][]string{{"a"}})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}
