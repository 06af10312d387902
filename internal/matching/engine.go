package matching

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Tier string

const (
	TierHot      Tier = "hot"
	TierStandard Tier = "standard"
	TierMaybe    Tier = "maybe"
	TierHidden   Tier = "hidden"
)

const (
	FactorSkills     = "skills"
	FactorExperience = "experience"
	FactorIndustry   = "industry"
	FactorSalary     = "salary"
	FactorCommute    = "commute"
	FactorStartDate  = "start_date"
	FactorVisa       = "visa"
	FactorLanguage   = "language"
	FactorOnsite     = "onsite"
	FactorLicense    = "license"
)

// CandidateProfile carries the candidate attributes the engine scores on.
// Pointer fields are optional: nil means unknown, which excludes the factor
// from its group instead of penalizing an incomplete profile.
type CandidateProfile struct {
	Skills          []string
	ExperienceYears float64
	Industries      []string
	ExpectedSalary  *float64
	CommuteMinutes  *float64
	AvailableFrom   *time.Time
	HasWorkPermit   bool
	Languages       []string
	Licenses        []string
	WillingOnsite   bool
}

type JobProfile struct {
	MustHaveSkills     []string
	NiceToHaveSkills   []string
	Industries         []string
	MinExperienceYears float64
	SalaryMin          *float64
	SalaryMax          *float64
	MaxCommuteMinutes  *float64
	RemotePolicy       string
	StartBy            *time.Time
	RequiresWorkPermit bool
	RequiredLanguages  []string
	RequiredLicenses   []string
	RequiresOnsite     bool
}

type Blocker struct {
	Factor string `json:"factor"`
	Reason string `json:"reason"`
}

type Warning struct {
	Factor  string `json:"factor"`
	Message string `json:"message"`
}

type Result struct {
	OverallScore    float64            `json:"overall_score"`
	FitScore        float64            `json:"fit_score"`
	ConstraintScore float64            `json:"constraint_score"`
	Factors         map[string]float64 `json:"factors"`
	Coverage        float64            `json:"coverage"`
	Blockers        []Blocker          `json:"blockers"`
	Warnings        []Warning          `json:"warnings"`
	DealProbability float64            `json:"deal_probability"`
	Tier            Tier               `json:"tier"`
}

// factorScore is one measured dimension before weighting. known=false means
// the data needed to measure it was missing on either side.
type factorScore struct {
	name    string
	known   bool
	score   float64
	gap     float64
	blocked bool
}

// Evaluate scores one candidate against one job under cfg. It is pure: same
// inputs always produce the same Result.
func Evaluate(cfg Config, candidate CandidateProfile, job JobProfile, now time.Time) Result {
	res := Result{
		Factors:  map[string]float64{},
		Blockers: []Blocker{},
		Warnings: []Warning{},
	}

	skills := scoreSkills(candidate, job)
	experience := scoreExperience(cfg.Gates.Experience, candidate, job, &res)
	industry := scoreIndustry(candidate, job)
	salary := scoreSalary(cfg.Gates.Salary, candidate, job, &res)
	commute := scoreCommute(cfg.Gates.Commute, candidate, job, &res)
	startDate := scoreStartDate(cfg.Gates.StartDate, candidate, job, now, &res)

	applyHardKills(cfg.HardKills, candidate, job, &res)

	fitParts := []weightedFactor{
		{skills, cfg.FitBreakdown.Skills},
		{experience, cfg.FitBreakdown.Experience},
		{industry, cfg.FitBreakdown.Industry},
	}
	constraintParts := []weightedFactor{
		{salary, cfg.ConstraintBreakdown.Salary},
		{commute, cfg.ConstraintBreakdown.Commute},
		{startDate, cfg.ConstraintBreakdown.StartDate},
	}

	fit, fitCoverage := combine(fitParts)
	constraints, constraintCoverage := combine(constraintParts)

	for _, p := range append(fitParts, constraintParts...) {
		if p.factor.known {
			res.Factors[p.factor.name] = round1(p.factor.score)
		}
	}

	res.FitScore = round1(fit)
	res.ConstraintScore = round1(constraints)
	res.Coverage = round3(cfg.Weights.Fit*fitCoverage + cfg.Weights.Constraints*constraintCoverage)

	overall := fit*cfg.Weights.Fit + constraints*cfg.Weights.Constraints
	overall *= bandMultiplier(cfg.Dealbreakers.SalaryGap, salary.gap)
	overall *= bandMultiplier(cfg.Dealbreakers.CommuteGap, commute.gap)
	res.OverallScore = round1(clamp(overall, 0, 100))

	res.DealProbability = round1(clamp(
		res.OverallScore-15*float64(len(res.Blockers))-5*float64(len(res.Warnings)), 0, 100))

	res.Tier = assignTier(cfg.DisplayPolicies, res.OverallScore, res.Coverage, len(res.Blockers))
	return res
}

type weightedFactor struct {
	factor factorScore
	weight float64
}

// combine weights the known factors of a group, renormalizing weights over
// the known subset. Coverage is the weight share that was measurable.
func combine(parts []weightedFactor) (score float64, coverage float64) {
	var knownWeight, total float64
	for _, p := range parts {
		if !p.factor.known {
			continue
		}
		knownWeight += p.weight
		s := p.factor.score
		if p.factor.blocked {
			s = 0
		}
		total += s * p.weight
	}
	if knownWeight <= 0 {
		return 0, 0
	}
	return total / knownWeight, knownWeight
}

func scoreSkills(candidate CandidateProfile, job JobProfile) factorScore {
	f := factorScore{name: FactorSkills}
	if len(job.MustHaveSkills) == 0 {
		return f
	}
	f.known = true
	have := normalizeSet(candidate.Skills)
	matched := 0
	for _, s := range job.MustHaveSkills {
		if have[normalizeToken(s)] {
			matched++
		}
	}
	f.score = float64(matched) / float64(len(job.MustHaveSkills)) * 100

	// Nice-to-haves add a capped bonus so they can break ties without
	// outweighing a missing must-have.
	if len(job.NiceToHaveSkills) > 0 {
		niceMatched := 0
		for _, s := range job.NiceToHaveSkills {
			if have[normalizeToken(s)] {
				niceMatched++
			}
		}
		f.score += float64(niceMatched) / float64(len(job.NiceToHaveSkills)) * 10
	}
	f.score = clamp(f.score, 0, 100)
	return f
}

func scoreExperience(gate GateThresholds, candidate CandidateProfile, job JobProfile, res *Result) factorScore {
	f := factorScore{name: FactorExperience, known: true}
	if job.MinExperienceYears <= 0 {
		f.score = 100
		return f
	}
	ratio := candidate.ExperienceYears / job.MinExperienceYears
	if ratio >= 1 {
		f.score = 100
		return f
	}
	f.score = clamp(ratio*100, 0, 100)
	f.gap = (1 - ratio) * 100
	gateFactor(gate, &f, res,
		fmt.Sprintf("%.1f years experience vs %.1f required", candidate.ExperienceYears, job.MinExperienceYears))
	return f
}

func scoreIndustry(candidate CandidateProfile, job JobProfile) factorScore {
	f := factorScore{name: FactorIndustry}
	if len(job.Industries) == 0 {
		return f
	}
	f.known = true
	have := normalizeSet(candidate.Industries)
	matched := 0
	for _, ind := range job.Industries {
		if have[normalizeToken(ind)] {
			matched++
		}
	}
	f.score = float64(matched) / float64(len(job.Industries)) * 100
	return f
}

func scoreSalary(gate GateThresholds, candidate CandidateProfile, job JobProfile, res *Result) factorScore {
	f := factorScore{name: FactorSalary}
	if candidate.ExpectedSalary == nil || job.SalaryMax == nil || *job.SalaryMax <= 0 {
		return f
	}
	f.known = true
	expected := *candidate.ExpectedSalary
	budget := *job.SalaryMax
	if expected <= budget {
		f.score = 100
		return f
	}
	f.gap = (expected - budget) / budget * 100
	f.score = clamp(100-f.gap*2, 0, 100)
	gateFactor(gate, &f, res,
		fmt.Sprintf("expected salary %.0f exceeds budget %.0f by %.0f%%", expected, budget, f.gap))
	return f
}

func scoreCommute(gate GateThresholds, candidate CandidateProfile, job JobProfile, res *Result) factorScore {
	f := factorScore{name: FactorCommute}
	if strings.EqualFold(job.RemotePolicy, "remote") {
		f.known = true
		f.score = 100
		return f
	}
	if candidate.CommuteMinutes == nil || job.MaxCommuteMinutes == nil || *job.MaxCommuteMinutes <= 0 {
		return f
	}
	f.known = true
	commute := *candidate.CommuteMinutes
	max := *job.MaxCommuteMinutes
	if commute <= max {
		f.score = 100
		return f
	}
	f.gap = (commute - max) / max * 100
	f.score = clamp(100-f.gap, 0, 100)
	gateFactor(gate, &f, res,
		fmt.Sprintf("commute %.0f min exceeds limit %.0f min by %.0f%%", commute, max, f.gap))
	return f
}

func scoreStartDate(gate GateThresholds, candidate CandidateProfile, job JobProfile, now time.Time, res *Result) factorScore {
	f := factorScore{name: FactorStartDate}
	if job.StartBy == nil {
		return f
	}
	f.known = true
	available := now
	if candidate.AvailableFrom != nil {
		available = *candidate.AvailableFrom
	}
	if !available.After(*job.StartBy) {
		f.score = 100
		return f
	}
	// Gap unit for start date is days late, not percent.
	f.gap = available.Sub(*job.StartBy).Hours() / 24
	f.score = clamp(100-f.gap*2, 0, 100)
	gateFactor(gate, &f, res,
		fmt.Sprintf("available %.0f days after required start", f.gap))
	return f
}

// gateFactor compares a factor's gap to its warn/fail cutoffs. Failing the
// gate blocks the factor (its contribution is forced to zero in combine).
func gateFactor(gate GateThresholds, f *factorScore, res *Result, detail string) {
	if gate.Fail > 0 && f.gap > gate.Fail {
		f.blocked = true
		res.Blockers = append(res.Blockers, Blocker{Factor: f.name, Reason: detail})
		return
	}
	if gate.Warn > 0 && f.gap > gate.Warn {
		res.Warnings = append(res.Warnings, Warning{Factor: f.name, Message: detail})
	}
}

func applyHardKills(kills HardKillDefaults, candidate CandidateProfile, job JobProfile, res *Result) {
	if kills.Visa && job.RequiresWorkPermit && !candidate.HasWorkPermit {
		res.Blockers = append(res.Blockers, Blocker{Factor: FactorVisa, Reason: "work permit required but not held"})
	}
	if kills.Language && len(job.RequiredLanguages) > 0 {
		have := normalizeSet(candidate.Languages)
		for _, lang := range job.RequiredLanguages {
			if !have[normalizeToken(lang)] {
				res.Blockers = append(res.Blockers, Blocker{Factor: FactorLanguage, Reason: fmt.Sprintf("required language %q missing", lang)})
				break
			}
		}
	}
	if kills.Onsite && job.RequiresOnsite && !candidate.WillingOnsite {
		res.Blockers = append(res.Blockers, Blocker{Factor: FactorOnsite, Reason: "onsite presence required but candidate is not willing"})
	}
	if kills.License && len(job.RequiredLicenses) > 0 {
		have := normalizeSet(candidate.Licenses)
		for _, lic := range job.RequiredLicenses {
			if !have[normalizeToken(lic)] {
				res.Blockers = append(res.Blockers, Blocker{Factor: FactorLicense, Reason: fmt.Sprintf("required license %q missing", lic)})
				break
			}
		}
	}
}

func assignTier(policies DisplayPolicies, score, coverage float64, blockers int) Tier {
	for _, entry := range []struct {
		tier   Tier
		policy TierPolicy
	}{
		{TierHot, policies.Hot},
		{TierStandard, policies.Standard},
		{TierMaybe, policies.Maybe},
	} {
		p := entry.policy
		if score >= p.MinScore && coverage >= p.MinCoverage && blockers <= p.MaxBlockers {
			return entry.tier
		}
	}
	return TierHidden
}

func bandMultiplier(bands []PenaltyBand, gap float64) float64 {
	if gap <= 0 || len(bands) == 0 {
		return 1.0
	}
	for _, b := range bands {
		if gap <= b.UpTo {
			return b.Multiplier
		}
	}
	return bands[len(bands)-1].Multiplier
}

func normalizeSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, item := range items {
		key := normalizeToken(item)
		if key != "" {
			out[key] = true
		}
	}
	return out
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
