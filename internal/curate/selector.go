package curate

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/abhisek/qbank/internal/question"
)

// Selector builds a bounded, balanced subset of one exam's pool by
// stratified sampling over section and difficulty.
type Selector struct {
	cfg  Config
	seed uint64
	rng  *rand.Rand
}

// Result is the outcome of one Select call.
type Result struct {
	Selected []question.Question

	// PoolSize is the number of records offered; Eligible is how many of
	// them passed the deliverable gate.
	PoolSize int
	Eligible int

	// Sections is the number of sections among eligible records.
	Sections int

	// Filled counts records added by the fallback fill step.
	Filled int
}

// NewSelector creates a Selector. When cfg.Seed is nil a fresh seed is drawn.
func NewSelector(cfg Config) *Selector {
	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &Selector{
		cfg:  cfg,
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed driving this selector, so an unseeded run can be
// reproduced.
func (s *Selector) Seed() uint64 { return s.seed }

// Select returns at most cfg.Target records from pool. The output length is
// min(Target, eligible) and no record appears twice. Pools at or under the
// target come back whole, in their original order.
func (s *Selector) Select(pool []question.Question) Result {
	eligible := s.cfg.Eligible(pool)
	res := Result{PoolSize: len(pool), Eligible: len(eligible)}

	target := s.cfg.Target
	if len(eligible) <= target {
		res.Selected = eligible
		res.Sections = len(sectionIndex(eligible))
		return res
	}

	sections := sectionIndex(eligible)
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	slices.Sort(names)
	res.Sections = len(names)

	quota := max(1, target/len(names))
	easyN := max(1, int(math.Round(float64(quota)*s.cfg.EasyShare)))
	hardN := max(1, int(math.Round(float64(quota)*s.cfg.HardShare)))
	want := map[question.Difficulty]int{
		question.DifficultyEasy:   easyN,
		question.DifficultyMedium: max(0, quota-easyN-hardN),
		question.DifficultyHard:   hardN,
	}

	chosen := make([]bool, len(eligible))
	var picked []int
	for _, name := range names {
		buckets := make(map[question.Difficulty][]int)
		for _, idx := range sections[name] {
			d := question.ParseDifficulty(string(eligible[idx].Difficulty))
			buckets[d] = append(buckets[d], idx)
		}
		for _, d := range question.AllDifficulties() {
			for _, idx := range s.sample(buckets[d], want[d]) {
				chosen[idx] = true
				picked = append(picked, idx)
			}
		}
	}

	if short := target - len(picked); short > 0 {
		var rest []int
		for idx := range eligible {
			if !chosen[idx] {
				rest = append(rest, idx)
			}
		}
		fill := s.sample(rest, short)
		res.Filled = len(fill)
		picked = append(picked, fill...)
	}

	s.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > target {
		picked = picked[:target]
	}

	res.Selected = make([]question.Question, len(picked))
	for i, idx := range picked {
		res.Selected[i] = eligible[idx]
	}
	return res
}

// sample draws up to n indices from bucket without replacement. A bucket
// smaller than n is returned whole.
func (s *Selector) sample(bucket []int, n int) []int {
	if n <= 0 || len(bucket) == 0 {
		return nil
	}
	out := slices.Clone(bucket)
	if n >= len(out) {
		return out
	}
	// Partial Fisher-Yates: only the first n positions need settling.
	for i := range n {
		j := i + s.rng.IntN(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:n]
}

// sectionIndex maps each section to the positions of its records.
func sectionIndex(qs []question.Question) map[string][]int {
	m := make(map[string][]int)
	for i, q := range qs {
		m[q.Section] = append(m[q.Section], i)
	}
	return m
}
