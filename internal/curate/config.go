package curate

import "fmt"

// Config controls deliverability gating and stratified selection.
type Config struct {
	// Target is the maximum number of records selected per exam.
	Target int `yaml:"target"`

	// MinOptions is the fewest options a deliverable record may have.
	MinOptions int `yaml:"min_options"`

	// MaxPromptLength bounds prompts for constrained display surfaces.
	MaxPromptLength int `yaml:"max_prompt_length"`

	// MaxOptionLength bounds each option.
	MaxOptionLength int `yaml:"max_option_length"`

	// MinExplanationLength is the shortest acceptable explanation.
	MinExplanationLength int `yaml:"min_explanation_length"`

	// EasyShare and HardShare are the per-section difficulty targets;
	// medium takes the remainder.
	EasyShare float64 `yaml:"easy_share"`
	HardShare float64 `yaml:"hard_share"`

	// Seed makes selection reproducible when set. Nil draws a fresh seed
	// on every run.
	Seed *uint64 `yaml:"seed"`
}

// DefaultConfig returns the reference curation settings: 200 records,
// a 30/40/30 easy/medium/hard mix and unseeded selection.
func DefaultConfig() Config {
	return Config{
		Target:               200,
		MinOptions:           4,
		MaxPromptLength:      500,
		MaxOptionLength:      200,
		MinExplanationLength: 20,
		EasyShare:            0.3,
		HardShare:            0.3,
	}
}

// WithSeed returns a copy of c with a fixed seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case c.Target <= 0:
		return fmt.Errorf("target must be > 0, got %d", c.Target)
	case c.EasyShare < 0 || c.HardShare < 0 || c.EasyShare+c.HardShare > 1:
		return fmt.Errorf("difficulty shares invalid: easy %g, hard %g", c.EasyShare, c.HardShare)
	case c.MaxPromptLength <= 0 || c.MaxOptionLength <= 0:
		return fmt.Errorf("length bounds must be > 0")
	}
	return nil
}
