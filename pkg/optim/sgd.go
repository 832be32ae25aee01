package optim

import "math"

// SGD is stochastic gradient descent with an inverse-scaling learning rate:
// the step size at update t is LearningRate / t^PowerT. PowerT = 0 keeps the
// rate constant.
type SGD struct {
	LearningRate float64
	PowerT       float64
	t            int
}

func NewSGD(lr, powerT float64) *SGD { return &SGD{LearningRate: lr, PowerT: powerT} }

// Rate returns the step size the next call to Step will use.
func (o *SGD) Rate() float64 {
	if o.PowerT == 0 {
		return o.LearningRate
	}
	return o.LearningRate / math.Pow(float64(o.t+1), o.PowerT)
}

// Step updates weights in place: weights -= rate * grads.
func (o *SGD) Step(weights, grads []float64) {
	eta := o.Rate()
	o.t++
	for i := range weights {
		weights[i] -= eta * grads[i]
	}
}

// Steps returns the number of updates applied so far.
func (o *SGD) Steps() int { return o.t }
