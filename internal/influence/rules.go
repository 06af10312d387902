package influence

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

const (
	AlertConsentPending       = "consent_pending"
	AlertInterviewUnconfirmed = "interview_unconfirmed"
	AlertInterviewPrepMissing = "interview_prep_missing"
	AlertSalaryGap            = "salary_gap"
	AlertEngagementStalled    = "engagement_stalled"
	AlertClosingWindow        = "closing_window"
)

// Signals is the per-submission input to the rule set, assembled by the
// service from submission, interview and behavior rows.
type Signals struct {
	Stage               string
	ConsentGiven        bool
	SubmittedAt         time.Time
	NextInterviewAt     *time.Time
	InterviewConfirmed  bool
	PrepSignalsPresent  bool
	SalaryGapPercent    *float64
	LastEngagementAt    *time.Time
	ClosingProbability  float64
}

type Alert struct {
	Type              string
	Priority          Priority
	Title             string
	Message           string
	RecommendedAction string
	ExpiresAt         *time.Time
}

// Evaluate runs every rule independently and returns the alerts that fired.
// Deduplication against already-open alerts is not this layer's concern; the
// insert path relies on the partial unique index.
func Evaluate(s Signals, now time.Time) []Alert {
	var alerts []Alert

	if a := consentPending(s, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := interviewUnconfirmed(s, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := interviewPrepMissing(s, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := salaryGap(s); a != nil {
		alerts = append(alerts, *a)
	}
	if a := engagementStalled(s, now); a != nil {
		alerts = append(alerts, *a)
	}
	if a := closingWindow(s); a != nil {
		alerts = append(alerts, *a)
	}
	return alerts
}

func consentPending(s Signals, now time.Time) *Alert {
	if s.ConsentGiven || s.SubmittedAt.IsZero() {
		return nil
	}
	pending := now.Sub(s.SubmittedAt)
	if pending <= 24*time.Hour {
		return nil
	}
	priority := PriorityHigh
	if pending > 48*time.Hour {
		priority = PriorityCritical
	}
	return &Alert{
		Type:              AlertConsentPending,
		Priority:          priority,
		Title:             "Candidate consent still pending",
		Message:           fmt.Sprintf("Consent has been pending for %.0f hours.", pending.Hours()),
		RecommendedAction: "Call the candidate and walk them through the consent form.",
	}
}

func interviewUnconfirmed(s Signals, now time.Time) *Alert {
	if s.NextInterviewAt == nil || s.InterviewConfirmed {
		return nil
	}
	until := s.NextInterviewAt.Sub(now)
	if until <= 0 || until >= 24*time.Hour {
		return nil
	}
	expires := *s.NextInterviewAt
	return &Alert{
		Type:              AlertInterviewUnconfirmed,
		Priority:          PriorityCritical,
		Title:             "Interview starts in under 24h without confirmation",
		Message:           fmt.Sprintf("Interview starts in %.0f hours and the candidate has not confirmed.", until.Hours()),
		RecommendedAction: "Reach the candidate now and confirm or reschedule.",
		ExpiresAt:         &expires,
	}
}

func interviewPrepMissing(s Signals, now time.Time) *Alert {
	if s.NextInterviewAt == nil || s.PrepSignalsPresent {
		return nil
	}
	until := s.NextInterviewAt.Sub(now)
	if until <= 0 || until >= 48*time.Hour {
		return nil
	}
	expires := *s.NextInterviewAt
	return &Alert{
		Type:              AlertInterviewPrepMissing,
		Priority:          PriorityHigh,
		Title:             "No interview prep signals before upcoming interview",
		Message:           fmt.Sprintf("Interview in %.0f hours; candidate has not opened any prep material.", until.Hours()),
		RecommendedAction: "Send the prep brief again and offer a short prep call.",
		ExpiresAt:         &expires,
	}
}

func salaryGap(s Signals) *Alert {
	if s.SalaryGapPercent == nil || *s.SalaryGapPercent <= 20 {
		return nil
	}
	gap := *s.SalaryGapPercent
	priority := PriorityMedium
	if gap > 35 {
		priority = PriorityHigh
	}
	return &Alert{
		Type:              AlertSalaryGap,
		Priority:          priority,
		Title:             "Salary expectation well over budget",
		Message:           fmt.Sprintf("Candidate expectation is %.0f%% over the job budget.", gap),
		RecommendedAction: "Align expectations with the candidate before the client does.",
	}
}

func engagementStalled(s Signals, now time.Time) *Alert {
	if s.LastEngagementAt == nil {
		return nil
	}
	idle := now.Sub(*s.LastEngagementAt)
	if idle <= 5*24*time.Hour {
		return nil
	}
	priority := PriorityMedium
	if idle > 10*24*time.Hour {
		priority = PriorityHigh
	}
	return &Alert{
		Type:              AlertEngagementStalled,
		Priority:          priority,
		Title:             "Candidate engagement has stalled",
		Message:           fmt.Sprintf("No engagement activity for %.0f days.", idle.Hours()/24),
		RecommendedAction: "Send a personal check-in, not another template mail.",
	}
}

func closingWindow(s Signals) *Alert {
	if s.ClosingProbability < 75 {
		return nil
	}
	switch s.Stage {
	case "offer", "hired", "rejected":
		return nil
	}
	return &Alert{
		Type:              AlertClosingWindow,
		Priority:          PriorityMedium,
		Title:             "High closing probability before offer stage",
		Message:           fmt.Sprintf("Closing probability is %.0f%% while the submission is still pre-offer.", s.ClosingProbability),
		RecommendedAction: "Push the client for a decision while momentum is high.",
	}
}
