package influence

import (
	"math"
	"time"
)

// Engagement is the raw outreach activity for one submission.
type Engagement struct {
	Stage          string
	EmailsSent     int
	EmailsOpened   int
	LinksClicked   int
	LastActivityAt *time.Time
}

type BehaviorScores struct {
	ConfidenceScore         float64
	InterviewReadinessScore float64
	ClosingProbability      float64
	HesitationSignals       []string
	MotivationIndicators    []string
}

var stageClosingBase = map[string]float64{
	"submitted":   15,
	"interview_1": 35,
	"interview_2": 55,
	"offer":       80,
}

// ScoreBehavior derives the engagement scores from open/click ratios, stage
// and recency. Idempotent; re-running with unchanged input yields the same
// snapshot.
func ScoreBehavior(e Engagement, now time.Time) BehaviorScores {
	var out BehaviorScores

	openRate := ratio(e.EmailsOpened, e.EmailsSent)
	clickRate := ratio(e.LinksClicked, e.EmailsSent)

	out.ConfidenceScore = clampScore(30 + openRate*45 + clickRate*25)
	out.InterviewReadinessScore = clampScore(20 + clickRate*60 + openRate*20)

	base := stageClosingBase[e.Stage]
	out.ClosingProbability = clampScore(base + openRate*10 + clickRate*10)

	idleDays := 0.0
	if e.LastActivityAt != nil && now.After(*e.LastActivityAt) {
		idleDays = now.Sub(*e.LastActivityAt).Hours() / 24
	}
	if idleDays > 3 {
		out.ConfidenceScore = clampScore(out.ConfidenceScore - (idleDays-3)*4)
		out.ClosingProbability = clampScore(out.ClosingProbability - (idleDays-3)*3)
	}

	if e.EmailsSent >= 3 && openRate < 0.34 {
		out.HesitationSignals = append(out.HesitationSignals, "low email open rate")
	}
	if idleDays > 5 {
		out.HesitationSignals = append(out.HesitationSignals, "gone quiet for over five days")
	}
	if clickRate >= 0.5 {
		out.MotivationIndicators = append(out.MotivationIndicators, "clicks through on most outreach")
	}
	if idleDays <= 1 && e.EmailsOpened > 0 {
		out.MotivationIndicators = append(out.MotivationIndicators, "active within the last day")
	}
	return out
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	r := float64(n) / float64(d)
	return math.Min(1, r)
}

func clampScore(v float64) float64 {
	return math.Round(math.Max(0, math.Min(100, v))*10) / 10
}
