package loader

import (
	"math"
	"math/rand"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/data"
	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// HoldoutSize returns the number of test rows for n records: testRatio*n rounded
// half away from zero.
func HoldoutSize(n int, testRatio float64) int {
	return int(math.Round(float64(n) * testRatio))
}

// Split partitions the table into disjoint train and test tables. The
// permutation comes from a source seeded with seed, so a fixed seed always
// yields the same partition. The first HoldoutSize(n) permuted rows form the test
// set; both outputs keep the permutation order.
func Split(t *data.Table, testRatio float64, seed int64) (train, test *data.Table, err error) {
	if !(testRatio > 0 && testRatio < 1) {
		return nil, nil, errs.Configuration("test fraction %v must be in (0, 1)", testRatio).In(errs.StageSplit)
	}
	n := t.Len()
	if n == 0 {
		return nil, nil, errs.Configuration("cannot split an empty table").In(errs.StageSplit)
	}
	nTest := HoldoutSize(n, testRatio)
	if nTest == 0 || nTest == n {
		return nil, nil, errs.Configuration("test fraction %v of %d rows leaves an empty split", testRatio, n).In(errs.StageSplit)
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	return t.Subset(indices[nTest:]), t.Subset(indices[:nTest]), nil
}
