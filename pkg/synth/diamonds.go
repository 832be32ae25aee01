// Package synth generates diamond-like tables for demos and tests.
package synth

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/config"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
)

// Columns of a generated table. id is not a feature.
var Columns = []string{"id", "carat", "cut", "color", "clarity", "depth", "table", "x", "y", "z", "price"}

// Diamonds returns n rows whose price grows with carat and with the rank of
// cut, color and clarity in config.DefaultColumns orderings. Each feature
// cell is blanked with probability missing; id and price are never blank.
// The same seed yields the same table.
func Diamonds(n int, seed int64, missing float64) *data.Table {
	rnd := rand.New(rand.NewSource(seed))
	ord := config.DefaultColumns().Orderings
	cuts, colors, clarities := ord["cut"], ord["color"], ord["clarity"]

	rows := make([][]string, n)
	for i := range rows {
		carat := math.Min(0.2+rnd.ExpFloat64()*0.6, 4.5)
		cut := weighted(rnd, []float64{0.03, 0.09, 0.22, 0.26, 0.40})
		color := rnd.Intn(len(colors))
		clarity := rnd.Intn(len(clarities))

		x := 6.4*math.Cbrt(carat) + rnd.NormFloat64()*0.05
		y := x + rnd.NormFloat64()*0.05
		z := x*0.618 + rnd.NormFloat64()*0.03
		depth := 61.7 + rnd.NormFloat64()*1.4
		table := 57.4 + rnd.NormFloat64()*2.2

		logPrice := 8.4 + 1.7*math.Log(carat) +
			0.06*float64(cut) +
			0.07*float64(len(colors)-1-color) +
			0.11*float64(clarity) +
			rnd.NormFloat64()*0.08
		price := math.Round(math.Exp(logPrice))

		cells := []string{
			strconv.Itoa(i),
			num(carat),
			cuts[cut],
			colors[color],
			clarities[clarity],
			num(depth),
			num(table),
			num(x),
			num(y),
			num(z),
			strconv.FormatFloat(price, 'f', 0, 64),
		}
		// blank features only: skip id (0) and price (last)
		for j := 1; j < len(cells)-1; j++ {
			if missing > 0 && rnd.Float64() < missing {
				cells[j] = ""
			}
		}
		rows[i] = cells
	}
	return data.NewTable(append([]string(nil), Columns...), rows)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// weighted draws an index with the given probabilities.
func weighted(rnd *rand.Rand, p []float64) int {
	u := rnd.Float64()
	acc := 0.0
	for i, w := range p {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(p) - 1
}
