package matching

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const weightEpsilon = 1e-6

// Weights splits the overall score between fit and constraint factors.
type Weights struct {
	Fit         float64 `json:"fit" yaml:"fit"`
	Constraints float64 `json:"constraints" yaml:"constraints"`
}

// FitBreakdown distributes the fit share across fit factors.
type FitBreakdown struct {
	Skills     float64 `json:"skills" yaml:"skills"`
	Experience float64 `json:"experience" yaml:"experience"`
	Industry   float64 `json:"industry" yaml:"industry"`
}

// ConstraintBreakdown distributes the constraint share across constraint factors.
type ConstraintBreakdown struct {
	Salary    float64 `json:"salary" yaml:"salary"`
	Commute   float64 `json:"commute" yaml:"commute"`
	StartDate float64 `json:"start_date" yaml:"start_date"`
}

// GateThresholds are warn/fail cutoffs for a factor's measured gap. The unit
// depends on the factor: percent over budget for salary and commute, percent
// deficit for experience, days late for start date.
type GateThresholds struct {
	Warn float64 `json:"warn" yaml:"warn"`
	Fail float64 `json:"fail" yaml:"fail"`
}

type GateConfig struct {
	Salary     GateThresholds `json:"salary" yaml:"salary"`
	Commute    GateThresholds `json:"commute" yaml:"commute"`
	StartDate  GateThresholds `json:"start_date" yaml:"start_date"`
	Experience GateThresholds `json:"experience" yaml:"experience"`
}

// HardKillDefaults switch the binary compliance checks on or off.
type HardKillDefaults struct {
	Visa     bool `json:"visa" yaml:"visa"`
	Language bool `json:"language" yaml:"language"`
	Onsite   bool `json:"onsite" yaml:"onsite"`
	License  bool `json:"license" yaml:"license"`
}

// TierPolicy is the admission rule for one display tier.
type TierPolicy struct {
	MinScore    float64 `json:"min_score" yaml:"min_score"`
	MinCoverage float64 `json:"min_coverage" yaml:"min_coverage"`
	MaxBlockers int     `json:"max_blockers" yaml:"max_blockers"`
}

// DisplayPolicies is walked hot -> standard -> maybe; the first tier whose
// thresholds are all satisfied wins, anything else is hidden.
type DisplayPolicies struct {
	Hot      TierPolicy `json:"hot" yaml:"hot"`
	Standard TierPolicy `json:"standard" yaml:"standard"`
	Maybe    TierPolicy `json:"maybe" yaml:"maybe"`
}

// PenaltyBand maps a gap range to a score multiplier. Bands are ordered by
// UpTo ascending; the first band whose UpTo is >= the gap applies.
type PenaltyBand struct {
	UpTo       float64 `json:"up_to" yaml:"up_to"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

type DealbreakerMultipliers struct {
	SalaryGap  []PenaltyBand `json:"salary_gap" yaml:"salary_gap"`
	CommuteGap []PenaltyBand `json:"commute_gap" yaml:"commute_gap"`
}

type Config struct {
	Weights             Weights                `json:"weights" yaml:"weights"`
	FitBreakdown        FitBreakdown           `json:"fit_breakdown" yaml:"fit_breakdown"`
	ConstraintBreakdown ConstraintBreakdown    `json:"constraint_breakdown" yaml:"constraint_breakdown"`
	Gates               GateConfig             `json:"gate_thresholds" yaml:"gate_thresholds"`
	HardKills           HardKillDefaults       `json:"hard_kill_defaults" yaml:"hard_kill_defaults"`
	DisplayPolicies     DisplayPolicies        `json:"display_policies" yaml:"display_policies"`
	Dealbreakers        DealbreakerMultipliers `json:"dealbreaker_multipliers" yaml:"dealbreaker_multipliers"`
}

// NewConfig validates cfg and returns it. Unlike the admin UI this used to
// live behind, drifted weight groups are rejected outright instead of being
// flagged and persisted anyway.
func NewConfig(cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := checkGroup("weights", c.Weights.Fit+c.Weights.Constraints); err != nil {
		return err
	}
	if err := checkGroup("fit_breakdown", c.FitBreakdown.Skills+c.FitBreakdown.Experience+c.FitBreakdown.Industry); err != nil {
		return err
	}
	if err := checkGroup("constraint_breakdown", c.ConstraintBreakdown.Salary+c.ConstraintBreakdown.Commute+c.ConstraintBreakdown.StartDate); err != nil {
		return err
	}
	for name, g := range map[string]GateThresholds{
		"salary":     c.Gates.Salary,
		"commute":    c.Gates.Commute,
		"start_date": c.Gates.StartDate,
		"experience": c.Gates.Experience,
	} {
		if g.Fail < g.Warn {
			return fmt.Errorf("gate_thresholds.%s: fail (%v) must be >= warn (%v)", name, g.Fail, g.Warn)
		}
	}
	if c.DisplayPolicies.Hot.MinScore < c.DisplayPolicies.Standard.MinScore ||
		c.DisplayPolicies.Standard.MinScore < c.DisplayPolicies.Maybe.MinScore {
		return fmt.Errorf("display_policies: min_score must be non-increasing from hot to maybe")
	}
	return nil
}

func checkGroup(name string, sum float64) error {
	if math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("%s must sum to 1.0, got %v", name, sum)
	}
	return nil
}

// Normalize repairs drifted weight groups by renormalizing each group to sum
// to 1.0. Groups that sum to zero are left untouched so Validate still fails.
func (c Config) Normalize() Config {
	if sum := c.Weights.Fit + c.Weights.Constraints; sum > 0 {
		c.Weights.Fit /= sum
		c.Weights.Constraints /= sum
	}
	if sum := c.FitBreakdown.Skills + c.FitBreakdown.Experience + c.FitBreakdown.Industry; sum > 0 {
		c.FitBreakdown.Skills /= sum
		c.FitBreakdown.Experience /= sum
		c.FitBreakdown.Industry /= sum
	}
	if sum := c.ConstraintBreakdown.Salary + c.ConstraintBreakdown.Commute + c.ConstraintBreakdown.StartDate; sum > 0 {
		c.ConstraintBreakdown.Salary /= sum
		c.ConstraintBreakdown.Commute /= sum
		c.ConstraintBreakdown.StartDate /= sum
	}
	return c
}

// ParseConfig decodes a stored config document and validates it.
func ParseConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode matching config: %w", err)
	}
	return NewConfig(cfg)
}

// LoadConfigFile reads a YAML seed config, used to bootstrap the first
// active version on an empty database.
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read matching config seed: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode matching config seed: %w", err)
	}
	return NewConfig(cfg)
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{Fit: 0.6, Constraints: 0.4},
		FitBreakdown: FitBreakdown{
			Skills:     0.5,
			Experience: 0.3,
			Industry:   0.2,
		},
		ConstraintBreakdown: ConstraintBreakdown{
			Salary:    0.5,
			Commute:   0.3,
			StartDate: 0.2,
		},
		Gates: GateConfig{
			Salary:     GateThresholds{Warn: 10, Fail: 25},
			Commute:    GateThresholds{Warn: 20, Fail: 50},
			StartDate:  GateThresholds{Warn: 14, Fail: 45},
			Experience: GateThresholds{Warn: 20, Fail: 50},
		},
		HardKills: HardKillDefaults{
			Visa:     true,
			Language: true,
			Onsite:   true,
			License:  true,
		},
		DisplayPolicies: DisplayPolicies{
			Hot:      TierPolicy{MinScore: 80, MinCoverage: 0.8, MaxBlockers: 0},
			Standard: TierPolicy{MinScore: 60, MinCoverage: 0.6, MaxBlockers: 1},
			Maybe:    TierPolicy{MinScore: 40, MinCoverage: 0.4, MaxBlockers: 2},
		},
		Dealbreakers: DealbreakerMultipliers{
			SalaryGap: []PenaltyBand{
				{UpTo: 10, Multiplier: 1.0},
				{UpTo: 25, Multiplier: 0.85},
				{UpTo: math.MaxFloat64, Multiplier: 0.6},
			},
			CommuteGap: []PenaltyBand{
				{UpTo: 20, Multiplier: 1.0},
				{UpTo: 50, Multiplier: 0.9},
				{UpTo: math.MaxFloat64, Multiplier: 0.7},
			},
		},
	}
}
