package influence

import (
	"testing"
	"time"
)

func findAlert(alerts []Alert, alertType string) *Alert {
	for i := range alerts {
		if alerts[i].Type == alertType {
			return &alerts[i]
		}
	}
	return nil
}

func TestEvaluate_ConsentPendingEscalates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fresh := Evaluate(Signals{SubmittedAt: now.Add(-12 * time.Hour)}, now)
	if a := findAlert(fresh, AlertConsentPending); a != nil {
		t.Fatalf("consent pending under 24h must not alert, got %+v", a)
	}

	day := Evaluate(Signals{SubmittedAt: now.Add(-30 * time.Hour)}, now)
	a := findAlert(day, AlertConsentPending)
	if a == nil || a.Priority != PriorityHigh {
		t.Fatalf("expected high priority after 30h, got %+v", a)
	}

	stale := Evaluate(Signals{SubmittedAt: now.Add(-60 * time.Hour)}, now)
	a = findAlert(stale, AlertConsentPending)
	if a == nil || a.Priority != PriorityCritical {
		t.Fatalf("expected critical priority after 60h, got %+v", a)
	}
}

func TestEvaluate_ConsentGivenSuppressesAlert(t *testing.T) {
	now := time.Now()
	alerts := Evaluate(Signals{ConsentGiven: true, SubmittedAt: now.Add(-72 * time.Hour)}, now)
	if a := findAlert(alerts, AlertConsentPending); a != nil {
		t.Fatalf("consent given must suppress the alert, got %+v", a)
	}
}

func TestEvaluate_InterviewUnconfirmedOnlyInsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	far := now.Add(36 * time.Hour)
	alerts := Evaluate(Signals{ConsentGiven: true, NextInterviewAt: &far, PrepSignalsPresent: true}, now)
	if a := findAlert(alerts, AlertInterviewUnconfirmed); a != nil {
		t.Fatalf("interview 36h out must not alert, got %+v", a)
	}

	soon := now.Add(6 * time.Hour)
	alerts = Evaluate(Signals{ConsentGiven: true, NextInterviewAt: &soon, PrepSignalsPresent: true}, now)
	a := findAlert(alerts, AlertInterviewUnconfirmed)
	if a == nil || a.Priority != PriorityCritical {
		t.Fatalf("expected critical alert inside 24h, got %+v", a)
	}
	if a.ExpiresAt == nil || !a.ExpiresAt.Equal(soon) {
		t.Fatalf("alert must expire at interview start, got %v", a.ExpiresAt)
	}

	past := now.Add(-time.Hour)
	alerts = Evaluate(Signals{ConsentGiven: true, NextInterviewAt: &past, PrepSignalsPresent: true}, now)
	if a := findAlert(alerts, AlertInterviewUnconfirmed); a != nil {
		t.Fatalf("past interview must not alert, got %+v", a)
	}
}

func TestEvaluate_PrepMissingSuppressedBySignals(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	soon := now.Add(30 * time.Hour)

	alerts := Evaluate(Signals{ConsentGiven: true, NextInterviewAt: &soon, InterviewConfirmed: true}, now)
	a := findAlert(alerts, AlertInterviewPrepMissing)
	if a == nil || a.Priority != PriorityHigh {
		t.Fatalf("expected high-priority prep alert inside 48h, got %+v", a)
	}

	alerts = Evaluate(Signals{ConsentGiven: true, NextInterviewAt: &soon, InterviewConfirmed: true, PrepSignalsPresent: true}, now)
	if a := findAlert(alerts, AlertInterviewPrepMissing); a != nil {
		t.Fatalf("prep signals must suppress the alert, got %+v", a)
	}
}

func TestEvaluate_SalaryGapBands(t *testing.T) {
	now := time.Now()
	cases := []struct {
		gap  float64
		want Priority
	}{
		{15, ""},
		{20, ""},
		{25, PriorityMedium},
		{40, PriorityHigh},
	}
	for _, tc := range cases {
		gap := tc.gap
		alerts := Evaluate(Signals{ConsentGiven: true, SalaryGapPercent: &gap}, now)
		a := findAlert(alerts, AlertSalaryGap)
		if tc.want == "" {
			if a != nil {
				t.Fatalf("gap %v%% must not alert, got %+v", tc.gap, a)
			}
			continue
		}
		if a == nil || a.Priority != tc.want {
			t.Fatalf("gap %v%%: want priority %q got %+v", tc.gap, tc.want, a)
		}
	}
}

func TestEvaluate_EngagementStalledBands(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	recent := now.Add(-3 * 24 * time.Hour)
	alerts := Evaluate(Signals{ConsentGiven: true, LastEngagementAt: &recent}, now)
	if a := findAlert(alerts, AlertEngagementStalled); a != nil {
		t.Fatalf("3 idle days must not alert, got %+v", a)
	}

	week := now.Add(-7 * 24 * time.Hour)
	alerts = Evaluate(Signals{ConsentGiven: true, LastEngagementAt: &week}, now)
	a := findAlert(alerts, AlertEngagementStalled)
	if a == nil || a.Priority != PriorityMedium {
		t.Fatalf("expected medium after 7 idle days, got %+v", a)
	}

	twoWeeks := now.Add(-14 * 24 * time.Hour)
	alerts = Evaluate(Signals{ConsentGiven: true, LastEngagementAt: &twoWeeks}, now)
	a = findAlert(alerts, AlertEngagementStalled)
	if a == nil || a.Priority != PriorityHigh {
		t.Fatalf("expected high after 14 idle days, got %+v", a)
	}
}

func TestEvaluate_ClosingWindowPreOfferOnly(t *testing.T) {
	now := time.Now()

	alerts := Evaluate(Signals{ConsentGiven: true, Stage: "interview_2", ClosingProbability: 80}, now)
	if a := findAlert(alerts, AlertClosingWindow); a == nil {
		t.Fatalf("expected closing window alert at 80%% pre-offer")
	}

	alerts = Evaluate(Signals{ConsentGiven: true, Stage: "offer", ClosingProbability: 90}, now)
	if a := findAlert(alerts, AlertClosingWindow); a != nil {
		t.Fatalf("offer stage must not alert, got %+v", a)
	}

	alerts = Evaluate(Signals{ConsentGiven: true, Stage: "interview_2", ClosingProbability: 70}, now)
	if a := findAlert(alerts, AlertClosingWindow); a != nil {
		t.Fatalf("70%% must not alert, got %+v", a)
	}
}

func TestEvaluate_QuietSubmissionFiresNothing(t *testing.T) {
	now := time.Now()
	alerts := Evaluate(Signals{ConsentGiven: true, Stage: "submitted", SubmittedAt: now.Add(-time.Hour)}, now)
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}
