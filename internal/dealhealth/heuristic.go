package dealhealth

import (
	"math"
	"time"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type Bottleneck string

const (
	BottleneckCandidateResponse   Bottleneck = "candidate_response"
	BottleneckClientReview        Bottleneck = "client_review"
	BottleneckInterviewScheduling Bottleneck = "interview_scheduling"
	BottleneckOfferPending        Bottleneck = "offer_pending"
	BottleneckRecruiterAction     Bottleneck = "recruiter_action"
	BottleneckClientDecision      Bottleneck = "client_decision"
)

type Input struct {
	Stage          string
	StageEnteredAt time.Time
	LastActivityAt time.Time
}

type Snapshot struct {
	HealthScore           float64
	RiskLevel             RiskLevel
	Bottleneck            Bottleneck
	BottleneckDays        float64
	DaysSinceLastActivity float64
}

// stageProfile holds the expected dwell time for a stage and how hard an
// overrun is penalized. Early-stage latency is more recoverable, so early
// stages carry a higher penalty per overrun day.
type stageProfile struct {
	expectedDwellDays float64
	overrunPenalty    float64
	bottleneck        Bottleneck
}

var stageProfiles = map[string]stageProfile{
	"submitted":   {expectedDwellDays: 2, overrunPenalty: 8, bottleneck: BottleneckClientReview},
	"interview_1": {expectedDwellDays: 5, overrunPenalty: 6, bottleneck: BottleneckInterviewScheduling},
	"interview_2": {expectedDwellDays: 5, overrunPenalty: 6, bottleneck: BottleneckClientDecision},
	"offer":       {expectedDwellDays: 7, overrunPenalty: 4, bottleneck: BottleneckOfferPending},
}

const inactivityPenaltyPerDay = 5.0

// Compute derives a deal health snapshot from stage and activity timestamps.
// Pure and idempotent; the caller decides whether to persist the result.
func Compute(in Input, now time.Time) Snapshot {
	profile, ok := stageProfiles[in.Stage]
	if !ok {
		profile = stageProfile{expectedDwellDays: 3, overrunPenalty: 5, bottleneck: BottleneckRecruiterAction}
	}

	dwellDays := daysBetween(in.StageEnteredAt, now)
	inactiveDays := daysBetween(in.LastActivityAt, now)

	overrun := math.Max(0, dwellDays-profile.expectedDwellDays)

	score := 100.0
	score -= overrun * profile.overrunPenalty
	score -= inactiveDays * inactivityPenaltyPerDay
	score = math.Max(0, math.Min(100, score))

	bottleneck := profile.bottleneck
	// Long inactivity with no stage overrun points at the candidate going
	// quiet rather than the pipeline step itself.
	if overrun == 0 && inactiveDays > profile.expectedDwellDays {
		bottleneck = BottleneckCandidateResponse
	}

	return Snapshot{
		HealthScore:           round1(score),
		RiskLevel:             riskFor(score),
		Bottleneck:            bottleneck,
		BottleneckDays:        round1(overrun),
		DaysSinceLastActivity: round1(inactiveDays),
	}
}

func riskFor(score float64) RiskLevel {
	switch {
	case score >= 75:
		return RiskLow
	case score >= 50:
		return RiskMedium
	case score >= 25:
		return RiskHigh
	default:
		return RiskCritical
	}
}

func daysBetween(from, to time.Time) float64 {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	return to.Sub(from).Hours() / 24
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
