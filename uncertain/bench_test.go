package uncertain_test

import (
	"testing"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
	"github.com/katalvlaran/uncertain/uncertain"
)

// benchmarkChain multiplies and adds two lifted n-vectors in a loop.
func benchmarkChain(b *testing.B, n int) {
	alloc := source.NewAllocator()
	nom, _ := ndarray.Generate(ndarray.Shape{n}, func(i int) float64 { return float64(i + 1) })
	x, err := uncertain.New(alloc, nom, ndarray.Scalar(0.1))
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	y, _ := uncertain.New(alloc, nom, ndarray.Scalar(0.2))

	b.ResetTimer() // ignore setup time
	for i := 0; i < b.N; i++ {
		p, err := uncertain.Mul(x, y)
		if err != nil {
			b.Fatalf("Mul failed: %v", err)
		}
		if _, err = uncertain.Add(p, x); err != nil {
			b.Fatalf("Add failed: %v", err)
		}
	}
}

func BenchmarkChain_Small(b *testing.B)  { benchmarkChain(b, 100) }
func BenchmarkChain_Medium(b *testing.B) { benchmarkChain(b, 10_000) }

// BenchmarkMean_Samples aggregates 1000 independent scalar samples.
func BenchmarkMean_Samples(b *testing.B) {
	alloc := source.NewAllocator()
	nom, _ := ndarray.Generate(ndarray.Shape{1000}, func(i int) float64 { return float64(i) })
	series, _ := uncertain.New(alloc, nom, ndarray.Scalar(0.5))
	items, _ := uncertain.Samples(series)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := uncertain.Mean(alloc, items); err != nil {
			b.Fatalf("Mean failed: %v", err)
		}
	}
}
