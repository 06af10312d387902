package matching

import (
	"testing"
	"time"
)

func float64Ptr(v float64) *float64 { return &v }

func fullMatchCandidate() CandidateProfile {
	return CandidateProfile{
		Skills:          []string{"Go", "Postgres", "Kubernetes"},
		ExperienceYears: 8,
		Industries:      []string{"fintech"},
		ExpectedSalary:  float64Ptr(55000),
		HasWorkPermit:   true,
		Languages:       []string{"english"},
		WillingOnsite:   true,
	}
}

func remoteJob() JobProfile {
	return JobProfile{
		MustHaveSkills:     []string{"go", "postgres"},
		NiceToHaveSkills:   []string{"kubernetes"},
		Industries:         []string{"fintech"},
		MinExperienceYears: 5,
		SalaryMax:          float64Ptr(60000),
		RemotePolicy:       "remote",
		RequiredLanguages:  []string{"english"},
	}
}

func TestNewConfig_RejectsDriftedWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Fit = 0.7 // 0.7 + 0.4 != 1.0
	if _, err := NewConfig(cfg); err == nil {
		t.Fatalf("expected error for drifted weights")
	}
}

func TestNewConfig_RejectsFailBelowWarn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gates.Salary = GateThresholds{Warn: 30, Fail: 10}
	if _, err := NewConfig(cfg); err == nil {
		t.Fatalf("expected error for fail < warn")
	}
}

func TestNormalize_RepairsDrift(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Fit: 3, Constraints: 2}
	fixed := cfg.Normalize()
	if _, err := NewConfig(fixed); err != nil {
		t.Fatalf("expected normalized config to validate: %v", err)
	}
	if fixed.Weights.Fit != 0.6 {
		t.Fatalf("expected fit=0.6 got %v", fixed.Weights.Fit)
	}
}

func TestEvaluate_FullMatchIsHot(t *testing.T) {
	res := Evaluate(DefaultConfig(), fullMatchCandidate(), remoteJob(), time.Now())
	if res.OverallScore != 100 {
		t.Fatalf("expected overall=100 got %v", res.OverallScore)
	}
	if len(res.Blockers) != 0 {
		t.Fatalf("expected no blockers got %v", res.Blockers)
	}
	if res.Tier != TierHot {
		t.Fatalf("expected tier=hot got %q", res.Tier)
	}
}

func TestEvaluate_MissingMustHaveLowersScore(t *testing.T) {
	now := time.Now()
	full := Evaluate(DefaultConfig(), fullMatchCandidate(), remoteJob(), now)

	weaker := fullMatchCandidate()
	weaker.Skills = []string{"Go"} // postgres missing
	partial := Evaluate(DefaultConfig(), weaker, remoteJob(), now)

	if partial.OverallScore >= full.OverallScore {
		t.Fatalf("expected lower score with missing must-have: full=%v partial=%v", full.OverallScore, partial.OverallScore)
	}
	if partial.Factors[FactorSkills] >= full.Factors[FactorSkills] {
		t.Fatalf("expected lower skills factor: full=%v partial=%v", full.Factors[FactorSkills], partial.Factors[FactorSkills])
	}
}

func TestEvaluate_SalaryGapPastFailGateBlocks(t *testing.T) {
	candidate := fullMatchCandidate()
	candidate.ExpectedSalary = float64Ptr(80000) // 33% over a 60000 budget
	res := Evaluate(DefaultConfig(), candidate, remoteJob(), time.Now())

	if len(res.Blockers) != 1 {
		t.Fatalf("expected 1 blocker got %d: %v", len(res.Blockers), res.Blockers)
	}
	if res.Blockers[0].Factor != FactorSalary {
		t.Fatalf("expected salary blocker got %q", res.Blockers[0].Factor)
	}
	if res.Tier == TierHot {
		t.Fatalf("blocked match must not be hot")
	}
}

func TestEvaluate_SalaryGapInWarnBandWarns(t *testing.T) {
	candidate := fullMatchCandidate()
	candidate.ExpectedSalary = float64Ptr(69000) // 15% over budget: warn, not fail
	res := Evaluate(DefaultConfig(), candidate, remoteJob(), time.Now())

	if len(res.Blockers) != 0 {
		t.Fatalf("expected no blockers got %v", res.Blockers)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Factor != FactorSalary {
		t.Fatalf("expected one salary warning got %v", res.Warnings)
	}
}

func TestEvaluate_HardKillMissingWorkPermit(t *testing.T) {
	candidate := fullMatchCandidate()
	candidate.HasWorkPermit = false
	job := remoteJob()
	job.RequiresWorkPermit = true

	res := Evaluate(DefaultConfig(), candidate, job, time.Now())
	found := false
	for _, b := range res.Blockers {
		if b.Factor == FactorVisa {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected visa blocker got %v", res.Blockers)
	}
}

func TestEvaluate_UnknownFactorsExcludedFromCoverage(t *testing.T) {
	candidate := CandidateProfile{
		Skills:          []string{"go", "postgres"},
		ExperienceYears: 8,
		Industries:      []string{"fintech"},
		// salary, commute and start date unknown
	}
	job := remoteJob()
	job.SalaryMax = nil
	job.RemotePolicy = "hybrid"
	job.RequiredLanguages = nil

	res := Evaluate(DefaultConfig(), candidate, job, time.Now())
	if res.Coverage >= 0.8 {
		t.Fatalf("expected coverage below 0.8 with unknown constraints, got %v", res.Coverage)
	}
	if _, ok := res.Factors[FactorSalary]; ok {
		t.Fatalf("unknown salary factor must not be reported")
	}
	// Full fit, but thin coverage keeps it out of hot.
	if res.Tier == TierHot {
		t.Fatalf("expected tier below hot at coverage %v", res.Coverage)
	}
}

func TestEvaluate_CommuteOverLimitPenalized(t *testing.T) {
	candidate := fullMatchCandidate()
	candidate.CommuteMinutes = float64Ptr(90)
	job := remoteJob()
	job.RemotePolicy = "onsite"
	job.MaxCommuteMinutes = float64Ptr(60) // 50% over: at the fail cutoff, not past it

	res := Evaluate(DefaultConfig(), candidate, job, time.Now())
	if len(res.Blockers) != 0 {
		t.Fatalf("gap at the cutoff must warn, not block: %v", res.Blockers)
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("expected commute warning")
	}
	if res.OverallScore >= 100 {
		t.Fatalf("expected penalized score got %v", res.OverallScore)
	}
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Evaluate(DefaultConfig(), fullMatchCandidate(), remoteJob(), now)
	b := Evaluate(DefaultConfig(), fullMatchCandidate(), remoteJob(), now)
	if a.OverallScore != b.OverallScore || a.Tier != b.Tier || a.Coverage != b.Coverage {
		t.Fatalf("expected identical results: %+v vs %+v", a, b)
	}
}
