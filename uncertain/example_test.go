package uncertain_test

import (
	"fmt"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
	"github.com/katalvlaran/uncertain/uncertain"
)

// ExampleSqrt shows first-order propagation through a function.
func ExampleSqrt() {
	alloc := source.NewAllocator()
	x, _ := uncertain.Scalar(alloc, 4, 0.2)

	y, _ := uncertain.Sqrt(x)
	nom, _ := y.Nominal().Item()
	sig, _ := y.StdDev().Item()
	fmt.Printf("%.2f ± %.2f\n", nom, sig)
	// Output: 2.00 ± 0.05
}

// ExampleSub shows that a value is perfectly correlated with itself.
func ExampleSub() {
	alloc := source.NewAllocator()
	x, _ := uncertain.Scalar(alloc, 7, 0.3)

	d, _ := uncertain.Sub(x, x)
	nom, _ := d.Nominal().Item()
	sig, _ := d.StdDev().Item()
	fmt.Printf("%.2f ± %.2f\n", nom, sig)
	// Output: 0.00 ± 0.00
}

// ExampleMean contrasts the precision of the mean with the spread of a sample.
func ExampleMean() {
	alloc := source.NewAllocator()
	series, _ := uncertain.New(alloc, ndarray.Vector(1, 2, 3, 4), ndarray.Scalar(0.2))
	items, _ := uncertain.Samples(series)

	m, _ := uncertain.Mean(alloc, items)
	r, _ := uncertain.Representative(alloc, items)
	mn, _ := m.Nominal().Item()
	ms, _ := m.StdDev().Item()
	rs, _ := r.StdDev().Item()
	fmt.Printf("mean %.2f ± %.2f\n", mn, ms)
	fmt.Printf("representative %.2f ± %.2f\n", mn, rs)
	// Output:
	// mean 2.50 ± 0.10
	// representative 2.50 ± 0.20
}
