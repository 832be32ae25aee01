package data

// Sample represents a single data point.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of data points.
type Batch struct {
	X [][]float64
	Y []float64
}

// Batcher reads from a Sample channel and emits mini-batches on out.
// The final batch may be smaller than batchSize. out is closed once in is
// drained or done is closed.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})
	if batchSize < 1 {
		batchSize = 1
	}

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64

		for {
			select {
			case <-done:
				return

			case s, ok := <-in:
				if !ok {
					// flush the partial batch
					if len(Y) > 0 {
						select {
						case out <- Batch{X: X, Y: Y}:
						case <-done:
						}
					}
					return
				}

				X = append(X, s.X)
				Y = append(Y, s.Y)

				if len(Y) == batchSize {
					select {
					case out <- Batch{X: X, Y: Y}:
					case <-done:
						return
					}
					X = nil
					Y = nil
				}
			}
		}
	}()

	return done
}

// Feed sends the rows of X/y in the given order on a new channel and closes it.
func Feed(X [][]float64, y []float64, order []int) <-chan Sample {
	ch := make(chan Sample, 64)
	go func() {
		defer close(ch)
		for _, i := range order {
			ch <- Sample{X: X[i], Y: y[i]}
		}
	}()
	return ch
}
