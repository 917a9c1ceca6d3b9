// Package calc provides streaming summary-statistic accumulators keyed by
// group, for single-pass reporting over annotation files.
package calc

import (
	"math"
	"sort"

	"github.com/mingzhi/gomath/stat/desc/meanvar"
)

// GroupedMeanVar accumulates a running mean and variance per group key.
type GroupedMeanVar struct {
	groups map[string]*meanvar.MeanVar
}

// NewGroupedMeanVar returns an empty GroupedMeanVar.
func NewGroupedMeanVar() *GroupedMeanVar {
	return &GroupedMeanVar{groups: make(map[string]*meanvar.MeanVar)}
}

// Increment adds a data point to the accumulator for key.
func (g *GroupedMeanVar) Increment(key string, v float64) {
	mv, ok := g.groups[key]
	if !ok {
		mv = meanvar.New()
		g.groups[key] = mv
	}
	mv.Increment(v)
}

// Mean returns the mean for key, or NaN if no data point was added.
func (g *GroupedMeanVar) Mean(key string) float64 {
	mv, ok := g.groups[key]
	if !ok {
		return math.NaN()
	}
	return mv.Mean.GetResult()
}

// Var returns the sample variance for key, or NaN if no data point was
// added.
func (g *GroupedMeanVar) Var(key string) float64 {
	mv, ok := g.groups[key]
	if !ok {
		return math.NaN()
	}
	return mv.Var.GetResult()
}

// N returns the number of data points added for key.
func (g *GroupedMeanVar) N(key string) int {
	mv, ok := g.groups[key]
	if !ok {
		return 0
	}
	return mv.Mean.GetN()
}

// Keys returns all group keys in sorted order.
func (g *GroupedMeanVar) Keys() []string {
	keys := make([]string, 0, len(g.groups))
	for k := range g.groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Append merges the accumulators of g1 into g.
func (g *GroupedMeanVar) Append(g1 *GroupedMeanVar) {
	for key, mv1 := range g1.groups {
		mv, ok := g.groups[key]
		if !ok {
			mv = meanvar.New()
			g.groups[key] = mv
		}
		mv.Mean.Append(mv1.Mean)
		mv.Var.Append(mv1.Var)
	}
}
