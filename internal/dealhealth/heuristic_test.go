package dealhealth

import (
	"testing"
	"time"
)

func TestCompute_FreshSubmissionIsHealthy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Compute(Input{
		Stage:          "submitted",
		StageEnteredAt: now.Add(-12 * time.Hour),
		LastActivityAt: now.Add(-2 * time.Hour),
	}, now)

	if snap.HealthScore < 95 {
		t.Fatalf("expected near-perfect score got %v", snap.HealthScore)
	}
	if snap.RiskLevel != RiskLow {
		t.Fatalf("expected risk=low got %q", snap.RiskLevel)
	}
	if snap.BottleneckDays != 0 {
		t.Fatalf("expected no overrun got %v", snap.BottleneckDays)
	}
}

func TestCompute_ScoreDecaysMonotonically(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entered := now.Add(-24 * time.Hour)

	prev := 101.0
	for _, idleDays := range []int{0, 2, 5, 10, 20} {
		snap := Compute(Input{
			Stage:          "interview_1",
			StageEnteredAt: entered,
			LastActivityAt: now.Add(-time.Duration(idleDays) * 24 * time.Hour),
		}, now)
		if snap.HealthScore > prev {
			t.Fatalf("score must not rise with more idle days: %v after %d days, previous %v", snap.HealthScore, idleDays, prev)
		}
		prev = snap.HealthScore
	}
}

func TestCompute_OverrunPenalizedPerStageProfile(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	activity := now.Add(-1 * time.Hour)

	// 6 days in a stage that expects 2: 4 overrun days at 8 points each.
	snap := Compute(Input{
		Stage:          "submitted",
		StageEnteredAt: now.Add(-6 * 24 * time.Hour),
		LastActivityAt: activity,
	}, now)
	if snap.BottleneckDays != 4 {
		t.Fatalf("expected 4 overrun days got %v", snap.BottleneckDays)
	}
	if snap.Bottleneck != BottleneckClientReview {
		t.Fatalf("expected client_review bottleneck got %q", snap.Bottleneck)
	}
	if snap.RiskLevel == RiskLow {
		t.Fatalf("expected elevated risk at score %v", snap.HealthScore)
	}
}

func TestCompute_QuietCandidateFlaggedAsBottleneck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// No stage overrun, but silence longer than the stage's expected dwell.
	snap := Compute(Input{
		Stage:          "offer",
		StageEnteredAt: now.Add(-2 * 24 * time.Hour),
		LastActivityAt: now.Add(-9 * 24 * time.Hour),
	}, now)
	if snap.Bottleneck != BottleneckCandidateResponse {
		t.Fatalf("expected candidate_response bottleneck got %q", snap.Bottleneck)
	}
}

func TestCompute_UnknownStageUsesFallbackProfile(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Compute(Input{
		Stage:          "hired",
		StageEnteredAt: now.Add(-1 * time.Hour),
		LastActivityAt: now.Add(-1 * time.Hour),
	}, now)
	if snap.Bottleneck != BottleneckRecruiterAction {
		t.Fatalf("expected recruiter_action fallback got %q", snap.Bottleneck)
	}
}

func TestRiskBands(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{80, RiskLow},
		{75, RiskLow},
		{60, RiskMedium},
		{30, RiskHigh},
		{10, RiskCritical},
	}
	for _, tc := range cases {
		if got := riskFor(tc.score); got != tc.want {
			t.Fatalf("riskFor(%v): want=%q got=%q", tc.score, tc.want, got)
		}
	}
}
