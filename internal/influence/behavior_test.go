package influence

import (
	"testing"
	"time"
)

func hasSignal(signals []string, want string) bool {
	for _, s := range signals {
		if s == want {
			return true
		}
	}
	return false
}

func TestScoreBehavior_NoOutreachYieldsBaselines(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := ScoreBehavior(Engagement{Stage: "submitted"}, now)

	if out.ConfidenceScore != 30 {
		t.Fatalf("want confidence=30 got %v", out.ConfidenceScore)
	}
	if out.InterviewReadinessScore != 20 {
		t.Fatalf("want readiness=20 got %v", out.InterviewReadinessScore)
	}
	if out.ClosingProbability != 15 {
		t.Fatalf("want closing=15 got %v", out.ClosingProbability)
	}
	if len(out.HesitationSignals) != 0 || len(out.MotivationIndicators) != 0 {
		t.Fatalf("expected no signals, got %+v", out)
	}
}

func TestScoreBehavior_EngagedCandidateScoresHigh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	activity := now.Add(-2 * time.Hour)
	out := ScoreBehavior(Engagement{
		Stage:          "submitted",
		EmailsSent:     4,
		EmailsOpened:   4,
		LinksClicked:   2,
		LastActivityAt: &activity,
	}, now)

	// openRate=1.0, clickRate=0.5
	if out.ConfidenceScore != 87.5 {
		t.Fatalf("want confidence=87.5 got %v", out.ConfidenceScore)
	}
	if out.InterviewReadinessScore != 70 {
		t.Fatalf("want readiness=70 got %v", out.InterviewReadinessScore)
	}
	if out.ClosingProbability != 30 {
		t.Fatalf("want closing=30 got %v", out.ClosingProbability)
	}
	if !hasSignal(out.MotivationIndicators, "clicks through on most outreach") {
		t.Fatalf("expected click-through indicator, got %v", out.MotivationIndicators)
	}
	if !hasSignal(out.MotivationIndicators, "active within the last day") {
		t.Fatalf("expected recency indicator, got %v", out.MotivationIndicators)
	}
}

func TestScoreBehavior_IdleDecayAfterThreeDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	idle := now.Add(-7 * 24 * time.Hour)
	out := ScoreBehavior(Engagement{
		Stage:          "interview_1",
		EmailsSent:     3,
		LastActivityAt: &idle,
	}, now)

	// 4 days past the grace window: confidence 30-16, closing 35-12.
	if out.ConfidenceScore != 14 {
		t.Fatalf("want confidence=14 got %v", out.ConfidenceScore)
	}
	if out.ClosingProbability != 23 {
		t.Fatalf("want closing=23 got %v", out.ClosingProbability)
	}
	if !hasSignal(out.HesitationSignals, "low email open rate") {
		t.Fatalf("expected open-rate hesitation, got %v", out.HesitationSignals)
	}
	if !hasSignal(out.HesitationSignals, "gone quiet for over five days") {
		t.Fatalf("expected quiet hesitation, got %v", out.HesitationSignals)
	}
}

func TestScoreBehavior_StageRaisesClosingBase(t *testing.T) {
	now := time.Now()
	stages := []string{"submitted", "interview_1", "interview_2", "offer"}
	prev := -1.0
	for _, stage := range stages {
		out := ScoreBehavior(Engagement{Stage: stage}, now)
		if out.ClosingProbability <= prev {
			t.Fatalf("closing probability must rise by stage: %q gave %v after %v", stage, out.ClosingProbability, prev)
		}
		prev = out.ClosingProbability
	}
}

func TestScoreBehavior_IsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	activity := now.Add(-4 * 24 * time.Hour)
	in := Engagement{Stage: "interview_2", EmailsSent: 5, EmailsOpened: 2, LinksClicked: 1, LastActivityAt: &activity}

	a := ScoreBehavior(in, now)
	b := ScoreBehavior(in, now)
	if a.ConfidenceScore != b.ConfidenceScore || a.ClosingProbability != b.ClosingProbability {
		t.Fatalf("expected identical snapshots: %+v vs %+v", a, b)
	}
}
