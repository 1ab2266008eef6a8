package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	roadmapx "certpilot/agent/roadmap"
)

func TestCollectProfile(t *testing.T) {
	t.Parallel()

	in := strings.NewReader(strings.Join([]string{
		"Data Analyst",
		"AI Developer",
		"Built BI dashboards for two years",
		"Beginner",
		"AI, Data, ",
		"15 hours",
	}, "\n"))

	var out bytes.Buffer
	profile := NewPrompter(in, &out).CollectProfile()

	if profile.Role != "Data Analyst" {
		t.Fatalf("role = %q", profile.Role)
	}
	if len(profile.Interests) != 2 || profile.Interests[0] != "AI" || profile.Interests[1] != "Data" {
		t.Fatalf("interests = %#v", profile.Interests)
	}
	if profile.WeeklyHours != 15 {
		t.Fatalf("weekly hours = %d, want 15", profile.WeeklyHours)
	}
}

func TestCollectProfileDefaultsOnBadInput(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("\n\n\n\n\nlots\n")
	var out bytes.Buffer
	profile := NewPrompter(in, &out).CollectProfile()

	if profile.WeeklyHours != 0 {
		t.Fatalf("weekly hours = %d, want 0 (unset)", profile.WeeklyHours)
	}
	if profile.StudyHours() != 10 {
		t.Fatalf("effective hours = %d, want default 10", profile.StudyHours())
	}
	if len(profile.Interests) != 0 {
		t.Fatalf("interests = %#v, want none", profile.Interests)
	}
}

func TestRenderContextPartialRoadmap(t *testing.T) {
	t.Parallel()

	selected := "ai-900"
	rc := roadmapx.New("run-1", roadmapx.Profile{}, time.Now())
	rc.SelectedCertification = &selected
	rc.Recommendations = []roadmapx.Recommendation{
		{CertificationID: "ai-900", Title: "Azure AI Fundamentals", Difficulty: "Fundamental", EstimatedStudyTime: "30-40 hours"},
	}

	var out bytes.Buffer
	RenderContext(&out, rc)

	text := out.String()
	if !strings.Contains(text, "AI-900") {
		t.Fatalf("render misses the recommendation:\n%s", text)
	}
	if strings.Contains(text, "Weekly schedule") {
		t.Fatal("render shows a schedule that never ran")
	}
}

func TestRenderContextFullRoadmap(t *testing.T) {
	t.Parallel()

	selected := "ai-900"
	rc := roadmapx.New("run-1", roadmapx.Profile{WeeklyHours: 15}, time.Now())
	rc.SelectedCertification = &selected
	rc.Recommendations = []roadmapx.Recommendation{
		{CertificationID: "ai-900", Title: "Azure AI Fundamentals"},
	}
	rc.Prerequisites = &roadmapx.GapAnalysis{
		MeetsPrerequisites: true,
		Confidence:         roadmapx.ConfidenceHigh,
	}
	rc.StudyPlan = &roadmapx.Plan{
		Title:          "Azure AI Fundamentals",
		TotalStudyTime: "30-40 hours",
		Weeks:          []roadmapx.WeekPlan{{Week: 1, Focus: "ML basics", Hours: 15}},
	}
	rc.Schedule = &roadmapx.Schedule{
		HoursPerWeek: 15,
		Days:         []roadmapx.DayBlock{{Day: "Monday", Hours: 2.25, Focus: "Core concepts"}},
		Milestones:   []roadmapx.Milestone{{Week: 1, Title: "Complete week 1", Description: "Finish ML basics"}},
		ExamTarget:   "2 weeks from start",
	}

	var out bytes.Buffer
	RenderContext(&out, rc)

	text := out.String()
	for _, want := range []string{"Prerequisite analysis", "Study plan", "Weekly schedule", "Milestones", "Target exam"} {
		if !strings.Contains(text, want) {
			t.Fatalf("render misses %q:\n%s", want, text)
		}
	}
}
