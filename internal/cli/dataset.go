package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/uncertain/ndarray"
	"github.com/katalvlaran/uncertain/source"
	"github.com/katalvlaran/uncertain/uncertain"
)

// ErrSigmaLength indicates a series whose sigma list is neither one value
// nor one value per sample.
var ErrSigmaLength = errors.New("cli: sigma must have one entry or one per value")

// Dataset is the YAML input of the aggregate command.
//
//	name: calibration
//	weighting: inverse-variance   # or uniform; optional
//	systematic: 0.3               # one shared source for every sample; optional
//	series:
//	  - name: alpha
//	    values: [1, 2, 3, 4]
//	    sigma: [0.5]
type Dataset struct {
	Name       string   `yaml:"name" validate:"required"`
	Weighting  string   `yaml:"weighting" validate:"omitempty,oneof=inverse-variance uniform"`
	Systematic float64  `yaml:"systematic" validate:"gte=0"`
	Series     []Series `yaml:"series" validate:"required,min=1,dive"`
}

// Series is one named list of samples with their dispersion.
type Series struct {
	Name   string    `yaml:"name" validate:"required"`
	Values []float64 `yaml:"values" validate:"required,min=1"`
	Sigma  []float64 `yaml:"sigma" validate:"required,min=1,dive,gte=0"`
}

var datasetValidate = validator.New()

// LoadDataset reads, strictly decodes and validates a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typos
	if err := decoder.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := datasetValidate.Struct(&ds); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	for _, s := range ds.Series {
		if len(s.Sigma) != 1 && len(s.Sigma) != len(s.Values) {
			return nil, fmt.Errorf("invalid dataset: series %q: %w", s.Name, ErrSigmaLength)
		}
	}

	return &ds, nil
}

// WeightingRule maps the weighting field to an uncertain.Weighting; ok is
// false when the field is empty.
func (d *Dataset) WeightingRule() (w uncertain.Weighting, ok bool) {
	for _, cand := range []uncertain.Weighting{uncertain.InverseVariance, uncertain.Uniform} {
		if d.Weighting == cand.String() {
			return cand, true
		}
	}

	return uncertain.DefaultWeighting, false
}

// Build turns every series into a vector value whose first axis is the
// sample axis. Per-sample sources go to the dispersion budget; a positive
// Systematic adds one source shared by every sample of every series.
func (d *Dataset) Build(alloc *source.Allocator) ([]*uncertain.Value, error) {
	var shared *uncertain.Value
	if d.Systematic > 0 {
		var err error
		shared, err = uncertain.Scalar(alloc, 0, d.Systematic, uncertain.WithBudget(uncertain.BudgetSystematic))
		if err != nil {
			return nil, err
		}
	}

	out := make([]*uncertain.Value, 0, len(d.Series))
	for _, s := range d.Series {
		v, err := uncertain.New(alloc, ndarray.Vector(s.Values...), ndarray.Vector(s.Sigma...),
			uncertain.WithBudget(uncertain.BudgetDispersion))
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		if shared != nil {
			if v, err = uncertain.Add(v, shared); err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Name, err)
			}
		}
		out = append(out, v)
	}

	return out, nil
}
