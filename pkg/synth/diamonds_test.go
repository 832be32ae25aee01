package synth

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/config"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/dataprep"
)

func TestDiamondsShapeAndDeterminism(t *testing.T) {
	a := Diamonds(200, 3, 0.05)
	b := Diamonds(200, 3, 0.05)
	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, Columns, a.Columns)
	assert.Equal(t, 200, a.Len())

	c := Diamonds(200, 4, 0.05)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestDiamondsValues(t *testing.T) {
	tbl := Diamonds(500, 1, 0.1)
	ord := config.DefaultColumns().Orderings

	for _, col := range []string{"cut", "color", "clarity"} {
		cells, err := tbl.Column(col)
		require.NoError(t, err)
		legal := map[string]bool{}
		for _, v := range ord[col] {
			legal[v] = true
		}
		blanks := 0
		for _, v := range cells {
			if dataprep.IsMissing(v) {
				blanks++
				continue
			}
			assert.True(t, legal[v], "%s=%q", col, v)
		}
		assert.Positive(t, blanks)
		assert.Less(t, blanks, 150)
	}

	prices, err := tbl.Column("price")
	require.NoError(t, err)
	for _, v := range prices {
		p, err := strconv.ParseFloat(v, 64)
		require.NoError(t, err)
		assert.Positive(t, p)
	}
}

func TestDiamondsNoMissing(t *testing.T) {
	tbl := Diamonds(50, 9, 0)
	for _, row := range tbl.Rows {
		for _, v := range row {
			assert.False(t, dataprep.IsMissing(v))
		}
	}
}
