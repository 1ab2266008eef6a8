package roadmap

import (
	"testing"
	"time"
)

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	rc := New("run-1", Profile{Role: "Data Analyst"}, time.Now())

	selected := "ai-900"
	updates := Updates{
		SelectedCertification: &selected,
		Recommendations: []Recommendation{
			{CertificationID: "ai-900", Title: "Azure AI Fundamentals"},
		},
		Prerequisites: &GapAnalysis{MeetsPrerequisites: true, Confidence: ConfidenceHigh},
	}

	updates.Apply(rc)
	updates.Apply(rc)

	if rc.SelectedID() != "ai-900" {
		t.Fatalf("unexpected selection: %s", rc.SelectedID())
	}
	if len(rc.Recommendations) != 1 {
		t.Fatalf("recommendations accumulated: %d", len(rc.Recommendations))
	}
	if rc.Prerequisites == nil || !rc.Prerequisites.MeetsPrerequisites {
		t.Fatalf("unexpected prerequisites: %#v", rc.Prerequisites)
	}
}

func TestApplyLeavesUnsetFieldsAlone(t *testing.T) {
	t.Parallel()

	rc := New("run-1", Profile{}, time.Now())
	selected := "az-900"
	Updates{SelectedCertification: &selected}.Apply(rc)

	Updates{StudyPlan: &Plan{CertificationID: "az-900"}}.Apply(rc)

	if rc.SelectedCertification == nil || *rc.SelectedCertification != "az-900" {
		t.Fatal("earlier selection was clobbered")
	}
	if rc.StudyPlan == nil {
		t.Fatal("study plan was not merged")
	}
	if rc.Schedule != nil {
		t.Fatal("schedule should still be unset")
	}
}

func TestSelectedIDFallsBackToTopRecommendation(t *testing.T) {
	t.Parallel()

	rc := New("run-1", Profile{}, time.Now())
	if rc.SelectedID() != "" {
		t.Fatalf("expected empty selection, got %s", rc.SelectedID())
	}

	rc.Recommendations = []Recommendation{
		{CertificationID: "dp-900"},
		{CertificationID: "ai-900"},
	}
	if rc.SelectedID() != "dp-900" {
		t.Fatalf("expected top recommendation, got %s", rc.SelectedID())
	}
}

func TestProfileStudyHoursDefault(t *testing.T) {
	t.Parallel()

	if got := (Profile{}).StudyHours(); got != 10 {
		t.Fatalf("default weekly hours = %d, want 10", got)
	}
	if got := (Profile{WeeklyHours: 15}).StudyHours(); got != 15 {
		t.Fatalf("weekly hours = %d, want 15", got)
	}
}

func TestProfileIsBeginner(t *testing.T) {
	t.Parallel()

	cases := []struct {
		experience string
		want       bool
	}{
		{"", true},
		{"Beginner", true},
		{"entry level", true},
		{"Intermediate", false},
		{"Advanced", false},
	}
	for _, tc := range cases {
		if got := (Profile{Experience: tc.experience}).IsBeginner(); got != tc.want {
			t.Fatalf("IsBeginner(%q) = %v, want %v", tc.experience, got, tc.want)
		}
	}
}
