package agents

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	catalogx "certpilot/agent/catalog"
	contractx "certpilot/agent/contract"
	roadmapx "certpilot/agent/roadmap"
)

// curriculumAgent sequences the certification's modules into a week-by-week
// study plan sized to the estimated study time.
type curriculumAgent struct {
	catalog *catalogx.Catalog
	runner  chatRunner
}

type curriculumLLMOutput struct {
	Weeks     []roadmapx.WeekPlan `json:"weekly_breakdown"`
	Resources []string            `json:"resources"`
}

var defaultResources = []string{
	"Microsoft Learn modules",
	"Official documentation",
	"Practice tests",
	"Hands-on labs",
}

func newCurriculumAgent(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string, cat *catalogx.Catalog) (*curriculumAgent, error) {
	runner, err := compileChatGraph(ctx, chatModel, systemPrompt, "curriculum.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile curriculum graph: %v", contractx.ErrModelInvoke, err)
	}
	return &curriculumAgent{catalog: cat, runner: runner}, nil
}

func (a *curriculumAgent) Stage() contractx.Stage {
	return contractx.StageCurriculum
}

func (a *curriculumAgent) Execute(ctx context.Context, rc *roadmapx.Context) (contractx.Result, error) {
	id := rc.SelectedID()
	if id == "" {
		return contractx.Result{}, fmt.Errorf("%w: curriculum: no certification selected", contractx.ErrStageFailure)
	}
	rec, err := a.catalog.ByID(id)
	if err != nil {
		return contractx.Result{}, fmt.Errorf("%w: curriculum: %v", contractx.ErrStageFailure, err)
	}

	weeklyHours := rc.Profile.StudyHours()
	weeks, resources, degraded := a.plan(ctx, rc, rec, weeklyHours)

	plan := roadmapx.Plan{
		CertificationID: strings.ToLower(rec.ID),
		Title:           rec.Title,
		TotalStudyTime:  rec.EstimatedStudyTime,
		Weeks:           weeks,
		Resources:       resources,
	}

	msg := fmt.Sprintf("created a %d-week study plan for %s", len(weeks), strings.ToUpper(rec.ID))
	if degraded {
		msg += " (rule-based fallback)"
	}

	return contractx.Result{
		Stage:   contractx.StageCurriculum,
		Success: true,
		Message: msg,
		Next:    contractx.StageSchedule,
		Updates: roadmapx.Updates{
			StudyPlan: &plan,
		},
		Fallback: degraded,
	}, nil
}

func (a *curriculumAgent) plan(ctx context.Context, rc *roadmapx.Context, rec catalogx.Record, weeklyHours int) ([]roadmapx.WeekPlan, []string, bool) {
	payload := map[string]any{
		"certification": map[string]any{
			"id":                   rec.ID,
			"title":                rec.Title,
			"modules":              rec.Modules,
			"learning_paths":       rec.LearningPaths,
			"estimated_study_time": rec.EstimatedStudyTime,
		},
		"weekly_hours": weeklyHours,
	}
	if rc.Prerequisites != nil {
		payload["prerequisites_analysis"] = rc.Prerequisites
	}

	reply, err := invokeChat(ctx, a.runner, payload)
	if err != nil {
		log.Debug().Err(err).Msg("curriculum: model call failed, using fallback")
		return fallbackWeeks(rec, weeklyHours), defaultResources, true
	}

	out, err := decode[curriculumLLMOutput](reply)
	if err != nil || len(out.Weeks) == 0 {
		log.Debug().Err(err).Msg("curriculum: structured parse failed, using fallback")
		return fallbackWeeks(rec, weeklyHours), defaultResources, true
	}

	for i := range out.Weeks {
		if out.Weeks[i].Week == 0 {
			out.Weeks[i].Week = i + 1
		}
		if out.Weeks[i].Hours <= 0 {
			out.Weeks[i].Hours = float64(weeklyHours)
		}
	}
	resources := out.Resources
	if len(resources) == 0 {
		resources = defaultResources
	}
	return out.Weeks, resources, false
}

// fallbackWeeks splits the module list evenly across enough weeks to cover
// the certification's minimum estimated hours at the given weekly budget.
func fallbackWeeks(rec catalogx.Record, weeklyHours int) []roadmapx.WeekPlan {
	totalHours := rec.MinHours(defaultTotalHours)
	weeks := (totalHours + weeklyHours - 1) / weeklyHours
	if weeks < 1 {
		weeks = 1
	}

	out := make([]roadmapx.WeekPlan, 0, weeks)
	remaining := totalHours
	for week := 1; week <= weeks; week++ {
		hours := min(weeklyHours, remaining)
		remaining -= hours
		out = append(out, roadmapx.WeekPlan{
			Week:       week,
			Focus:      weekFocus(rec.Modules, week, weeks),
			Hours:      float64(hours),
			Activities: []string{"Study modules", "Practice exercises", "Review concepts"},
		})
	}
	return out
}

const defaultTotalHours = 30

// weekFocus assigns each week its even share of the module list.
func weekFocus(modules []string, week, weeks int) string {
	if len(modules) == 0 {
		return fmt.Sprintf("Week %d topics", week)
	}
	per := (len(modules) + weeks - 1) / weeks
	start := (week - 1) * per
	if start >= len(modules) {
		return "Review and practice"
	}
	end := min(start+per, len(modules))
	return strings.Join(modules[start:end], "; ")
}
