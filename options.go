package drawcheck

import (
	"github.com/fusiengineers/drawcheck/lookup"
	"github.com/fusiengineers/drawcheck/tables"
)

// checkOptions holds configuration for one analysis run.
type checkOptions struct {
	tolerance  float64
	workers    int
	normalizer tables.NormalizerConfig
	tieBreak   func(a, b lookup.Candidate) bool
}

// defaultOptions returns the default analysis options.
func defaultOptions() checkOptions {
	return checkOptions{
		tolerance:  0.5,
		workers:    1,
		normalizer: tables.DefaultNormalizerConfig(),
		tieBreak:   nil, // engine default: horizontal proximity
	}
}

// clone creates a deep copy of checkOptions.
func (o checkOptions) clone() checkOptions {
	newOpts := checkOptions{
		tolerance: o.tolerance,
		workers:   o.workers,
		tieBreak:  o.tieBreak,
	}
	newOpts.normalizer = o.normalizer
	newOpts.normalizer.PosKeywords = append([]string(nil), o.normalizer.PosKeywords...)
	newOpts.normalizer.DescriptionKeywords = append([]string(nil), o.normalizer.DescriptionKeywords...)
	newOpts.normalizer.LengthKeywords = append([]string(nil), o.normalizer.LengthKeywords...)
	newOpts.normalizer.SizeKeywords = append([]string(nil), o.normalizer.SizeKeywords...)
	newOpts.normalizer.ThicknessKeywords = append([]string(nil), o.normalizer.ThicknessKeywords...)
	newOpts.normalizer.QuantityKeywords = append([]string(nil), o.normalizer.QuantityKeywords...)
	newOpts.normalizer.SectionKeywords = append([]string(nil), o.normalizer.SectionKeywords...)
	return newOpts
}
