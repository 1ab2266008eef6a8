package roadmap

import (
	"strings"
	"time"
)

// Context is the mutable aggregate threaded through the pipeline. The runner
// owns it: exactly one agent writes between merges, so no locking is needed.
// All stage outputs start unset and are populated at most once per run.
type Context struct {
	RunID   string  `json:"run_id"`
	Profile Profile `json:"profile"`

	SelectedCertification *string          `json:"selected_certification,omitempty"`
	Recommendations       []Recommendation `json:"recommendations,omitempty"`
	Prerequisites         *GapAnalysis     `json:"prerequisites_analysis,omitempty"`
	StudyPlan             *Plan            `json:"study_plan,omitempty"`
	Schedule              *Schedule        `json:"schedule,omitempty"`

	StartedAt time.Time `json:"started_at"`
}

// Profile captures what the user told us before the pipeline starts.
// Immutable once the run begins.
type Profile struct {
	Role        string   `json:"role"`
	Goals       string   `json:"goals"`
	Background  string   `json:"background"`
	Experience  string   `json:"experience"`
	Interests   []string `json:"interests,omitempty"`
	WeeklyHours int      `json:"weekly_hours"`
}

const defaultWeeklyHours = 10

// StudyHours returns the weekly hour budget, defaulting when unset.
func (p Profile) StudyHours() int {
	if p.WeeklyHours <= 0 {
		return defaultWeeklyHours
	}
	return p.WeeklyHours
}

// IsBeginner reports whether the stated experience reads as entry level.
func (p Profile) IsBeginner() bool {
	exp := strings.ToLower(strings.TrimSpace(p.Experience))
	return exp == "" || strings.Contains(exp, "beginner") || strings.Contains(exp, "entry") || strings.Contains(exp, "junior")
}

func New(runID string, profile Profile, now time.Time) *Context {
	return &Context{
		RunID:     runID,
		Profile:   profile,
		StartedAt: now.UTC(),
	}
}

// SelectedID returns the selected certification id, falling back to the top
// recommendation when no explicit selection has been merged yet.
func (c *Context) SelectedID() string {
	if c == nil {
		return ""
	}
	if c.SelectedCertification != nil && strings.TrimSpace(*c.SelectedCertification) != "" {
		return strings.TrimSpace(*c.SelectedCertification)
	}
	if len(c.Recommendations) > 0 {
		return strings.TrimSpace(c.Recommendations[0].CertificationID)
	}
	return ""
}

// Updates is the patch an agent hands back for merging. Only set members are
// applied; applying the same patch twice leaves the context unchanged.
type Updates struct {
	SelectedCertification *string          `json:"selected_certification,omitempty"`
	Recommendations       []Recommendation `json:"recommendations,omitempty"`
	Prerequisites         *GapAnalysis     `json:"prerequisites_analysis,omitempty"`
	StudyPlan             *Plan            `json:"study_plan,omitempty"`
	Schedule              *Schedule        `json:"schedule,omitempty"`
}

// IsZero reports whether the patch carries nothing to merge.
func (u Updates) IsZero() bool {
	return u.SelectedCertification == nil &&
		len(u.Recommendations) == 0 &&
		u.Prerequisites == nil &&
		u.StudyPlan == nil &&
		u.Schedule == nil
}

// Apply merges the patch into the context. Last write wins per field.
func (u Updates) Apply(c *Context) {
	if c == nil {
		return
	}
	if u.SelectedCertification != nil {
		id := strings.TrimSpace(*u.SelectedCertification)
		c.SelectedCertification = &id
	}
	if len(u.Recommendations) > 0 {
		c.Recommendations = u.Recommendations
	}
	if u.Prerequisites != nil {
		c.Prerequisites = u.Prerequisites
	}
	if u.StudyPlan != nil {
		c.StudyPlan = u.StudyPlan
	}
	if u.Schedule != nil {
		c.Schedule = u.Schedule
	}
}
