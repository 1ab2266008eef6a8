package agents

import (
	"context"
	"fmt"
	"math"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog/log"

	contractx "certpilot/agent/contract"
	roadmapx "certpilot/agent/roadmap"
)

// scheduleAgent distributes the weekly study budget across the days of the
// week and defines milestones. It is the terminal stage.
type scheduleAgent struct {
	runner chatRunner
}

type scheduleLLMOutput struct {
	Days       []roadmapx.DayBlock  `json:"daily_schedule"`
	Milestones []roadmapx.Milestone `json:"milestones"`
	ExamTarget string               `json:"exam_target"`
}

var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var dayFocus = []string{
	"Core concepts",
	"Hands-on practice",
	"Review and labs",
	"Practice tests",
	"Weekly review",
	"Light review",
	"Rest or catch-up",
}

func newScheduleAgent(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*scheduleAgent, error) {
	runner, err := compileChatGraph(ctx, chatModel, systemPrompt, "schedule.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile schedule graph: %v", contractx.ErrModelInvoke, err)
	}
	return &scheduleAgent{runner: runner}, nil
}

func (a *scheduleAgent) Stage() contractx.Stage {
	return contractx.StageSchedule
}

func (a *scheduleAgent) Execute(ctx context.Context, rc *roadmapx.Context) (contractx.Result, error) {
	if rc.StudyPlan == nil || len(rc.StudyPlan.Weeks) == 0 {
		return contractx.Result{}, fmt.Errorf("%w: schedule: no study plan available", contractx.ErrStageFailure)
	}

	plan := rc.StudyPlan
	weeklyHours := rc.Profile.StudyHours()

	out, degraded := a.build(ctx, plan, weeklyHours)

	sched := roadmapx.Schedule{
		CertificationID: plan.CertificationID,
		TotalWeeks:      len(plan.Weeks),
		HoursPerWeek:    weeklyHours,
		Days:            out.Days,
		Milestones:      out.Milestones,
		ExamTarget:      out.ExamTarget,
	}

	msg := fmt.Sprintf("scheduled %d hours per week over %d weeks", weeklyHours, sched.TotalWeeks)
	if degraded {
		msg += " (rule-based fallback)"
	}

	return contractx.Result{
		Stage:   contractx.StageSchedule,
		Success: true,
		Message: msg,
		Next:    contractx.StageNone,
		Updates: roadmapx.Updates{
			Schedule: &sched,
		},
		Fallback: degraded,
	}, nil
}

func (a *scheduleAgent) build(ctx context.Context, plan *roadmapx.Plan, weeklyHours int) (scheduleLLMOutput, bool) {
	reply, err := invokeChat(ctx, a.runner, map[string]any{
		"study_plan":   plan,
		"weekly_hours": weeklyHours,
	})
	if err != nil {
		log.Debug().Err(err).Msg("schedule: model call failed, using fallback")
		return fallbackSchedule(plan, weeklyHours), true
	}

	out, err := decode[scheduleLLMOutput](reply)
	if err != nil || !validDailySchedule(out.Days, weeklyHours) {
		log.Debug().Err(err).Msg("schedule: structured parse failed, using fallback")
		return fallbackSchedule(plan, weeklyHours), true
	}

	if len(out.Milestones) == 0 {
		out.Milestones = planMilestones(plan)
	}
	if out.ExamTarget == "" {
		out.ExamTarget = examTarget(plan)
	}
	return out, false
}

// validDailySchedule requires one entry per day of the week whose hours sum
// to the weekly budget.
func validDailySchedule(days []roadmapx.DayBlock, weeklyHours int) bool {
	if len(days) != len(weekdays) {
		return false
	}
	var sum float64
	for _, d := range days {
		if d.Hours < 0 {
			return false
		}
		sum += d.Hours
	}
	return math.Abs(sum-float64(weeklyHours)) < 0.01
}

// fallbackSchedule splits the budget evenly across all seven days in
// quarter-hour increments so the total always matches exactly.
func fallbackSchedule(plan *roadmapx.Plan, weeklyHours int) scheduleLLMOutput {
	quarters := weeklyHours * 4
	per := quarters / len(weekdays)
	extra := quarters % len(weekdays)

	days := make([]roadmapx.DayBlock, 0, len(weekdays))
	for i, day := range weekdays {
		q := per
		if i < extra {
			q++
		}
		days = append(days, roadmapx.DayBlock{
			Day:   day,
			Hours: float64(q) / 4,
			Focus: dayFocus[i],
		})
	}

	return scheduleLLMOutput{
		Days:       days,
		Milestones: planMilestones(plan),
		ExamTarget: examTarget(plan),
	}
}

func planMilestones(plan *roadmapx.Plan) []roadmapx.Milestone {
	out := make([]roadmapx.Milestone, 0, len(plan.Weeks)+1)
	for i, week := range plan.Weeks {
		focus := week.Focus
		if focus == "" {
			focus = fmt.Sprintf("Week %d topics", i+1)
		}
		out = append(out, roadmapx.Milestone{
			Week:        i + 1,
			Title:       fmt.Sprintf("Complete week %d", i+1),
			Description: fmt.Sprintf("Finish %s", focus),
			Status:      "Pending",
		})
	}
	out = append(out, roadmapx.Milestone{
		Week:        len(plan.Weeks) + 1,
		Title:       "Take certification exam",
		Description: "Schedule and take the official exam",
		Status:      "Pending",
	})
	return out
}

func examTarget(plan *roadmapx.Plan) string {
	return fmt.Sprintf("%d weeks from start", len(plan.Weeks)+1)
}
