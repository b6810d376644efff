package ndarray

// Kahan is a compensated running sum. The zero value is an empty sum.
// It reduces the rounding error accumulated when adding many terms of
// varying magnitude, which matters for root-sum-of-squares over large
// numbers of error sources.
//
// Kahan is not safe for concurrent use; each reduction owns its accumulator.
type Kahan struct {
	sum          float64
	compensation float64
}

// Add folds v into the running sum.
func (k *Kahan) Add(v float64) {
	y := v - k.compensation
	t := k.sum + y
	k.compensation = (t - k.sum) - y
	k.sum = t
}

// Sum returns the current total.
func (k *Kahan) Sum() float64 { return k.sum }

// Reset clears the accumulator for reuse.
func (k *Kahan) Reset() { k.sum, k.compensation = 0, 0 }
