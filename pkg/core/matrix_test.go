package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSliceAndAccessors(t *testing.T) {
	m, err := FromSlice([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.R)
	assert.Equal(t, 2, m.C)
	assert.Equal(t, 4.0, m.At(1, 1))

	m.Set(1, 1, 40)
	assert.Equal(t, 40.0, m.At(1, 1))
	assert.Equal(t, []float64{2, 40, 6}, m.Col(1))
	assert.Equal(t, []float64{5, 6}, m.Row(2))

	_, err = FromSlice([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestFromSliceHandlesMoreThan65kCells(t *testing.T) {
	rows := make([][]float64, 70000)
	for i := range rows {
		rows[i] = []float64{float64(i)}
	}
	m, err := FromSlice(rows)
	require.NoError(t, err)
	assert.Equal(t, 69999.0, m.At(69999, 0))
}

func TestAppendColumnAndSplitXY(t *testing.T) {
	m, err := FromSlice([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	m.Columns = []string{"a", "b"}

	withY, err := m.AppendColumn("price", []float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "price"}, withY.Columns)
	assert.Equal(t, 3, withY.C)

	X, y, err := withY.SplitXY()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, X)
	assert.Equal(t, []float64{10, 20}, y)

	_, err = m.AppendColumn("bad", []float64{1})
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	m, err := FromSlice([][]float64{{1}})
	require.NoError(t, err)
	c := m.Clone()
	c.Set(0, 0, 9)
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestDenseSharesData(t *testing.T) {
	m, err := FromSlice([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	d := m.Dense()
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3.0, d.At(1, 0))
}
