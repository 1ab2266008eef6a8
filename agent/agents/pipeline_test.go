package agents

import (
	"context"
	"testing"

	contractx "certpilot/agent/contract"
	roadmapx "certpilot/agent/roadmap"
	runnerx "certpilot/agent/runner"
)

// offlineRegistry builds the four agents against a model that always fails,
// forcing every stage onto its deterministic fallback.
func offlineRegistry(t *testing.T) contractx.Registry {
	t.Helper()
	cat := testCatalog(t)
	ctx := context.Background()

	goal, err := newGoalAgent(ctx, failingModel(), "goal prompt", cat)
	if err != nil {
		t.Fatalf("newGoalAgent() error = %v", err)
	}
	prereq, err := newPrerequisiteAgent(ctx, failingModel(), "prereq prompt", cat)
	if err != nil {
		t.Fatalf("newPrerequisiteAgent() error = %v", err)
	}
	curriculum, err := newCurriculumAgent(ctx, failingModel(), "curriculum prompt", cat)
	if err != nil {
		t.Fatalf("newCurriculumAgent() error = %v", err)
	}
	schedule, err := newScheduleAgent(ctx, failingModel(), "schedule prompt")
	if err != nil {
		t.Fatalf("newScheduleAgent() error = %v", err)
	}

	return &registryImpl{
		agents: map[contractx.Stage]contractx.Agent{
			contractx.StageGoal:         goal,
			contractx.StagePrerequisite: prereq,
			contractx.StageCurriculum:   curriculum,
			contractx.StageSchedule:     schedule,
		},
	}
}

type countingNotifier struct {
	started   []contractx.Stage
	completed []contractx.Stage
}

func (n *countingNotifier) StageStarted(stage contractx.Stage) {
	n.started = append(n.started, stage)
}

func (n *countingNotifier) StageCompleted(stage contractx.Stage, _ contractx.Result) {
	n.completed = append(n.completed, stage)
}

func TestPipelineCompletesOnFallbacksAlone(t *testing.T) {
	t.Parallel()

	notify := &countingNotifier{}
	run, err := runnerx.New(offlineRegistry(t), notify)
	if err != nil {
		t.Fatalf("runner.New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{
		Role:        "Data Analyst",
		Goals:       "AI Developer",
		Experience:  "Beginner",
		Interests:   []string{"AI", "Data"},
		WeeklyHours: 15,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(notify.started) != 4 {
		t.Fatalf("stage invocations = %d, want 4", len(notify.started))
	}
	want := []contractx.Stage{
		contractx.StageGoal,
		contractx.StagePrerequisite,
		contractx.StageCurriculum,
		contractx.StageSchedule,
	}
	for i, stage := range want {
		if notify.started[i] != stage {
			t.Fatalf("stage %d = %s, want %s", i, notify.started[i], stage)
		}
	}

	if rc.Schedule == nil {
		t.Fatal("pipeline did not reach the schedule stage")
	}
}

func TestPipelineDataAnalystScenario(t *testing.T) {
	t.Parallel()

	run, err := runnerx.New(offlineRegistry(t), nil)
	if err != nil {
		t.Fatalf("runner.New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{
		Role:        "Data Analyst",
		Goals:       "AI Developer",
		Experience:  "Beginner",
		Interests:   []string{"AI", "Data"},
		WeeklyHours: 15,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// a beginner interested in AI and Data should land on a fundamental
	// AI or Data certification
	cat := testCatalog(t)
	rec, err := cat.ByID(rc.SelectedID())
	if err != nil {
		t.Fatalf("selected certification %q not in catalog: %v", rc.SelectedID(), err)
	}
	if rec.Level != "Fundamental" {
		t.Fatalf("selected level = %s, want Fundamental", rec.Level)
	}
	if rec.Category != "AI" && rec.Category != "Data" {
		t.Fatalf("selected category = %s, want AI or Data", rec.Category)
	}

	if rc.Prerequisites == nil || !rc.Prerequisites.MeetsPrerequisites {
		t.Fatalf("expected met prerequisites, got %#v", rc.Prerequisites)
	}

	// the plan length should roughly be the certification's minimum
	// estimated hours at 15 hours per week
	wantWeeks := (rec.MinHours(30) + 14) / 15
	if rc.StudyPlan == nil || len(rc.StudyPlan.Weeks) != wantWeeks {
		t.Fatalf("plan weeks = %d, want %d", len(rc.StudyPlan.Weeks), wantWeeks)
	}

	if rc.Schedule == nil {
		t.Fatal("no schedule produced")
	}
	if len(rc.Schedule.Days) != 7 {
		t.Fatalf("day entries = %d, want 7", len(rc.Schedule.Days))
	}
	var sum float64
	for _, d := range rc.Schedule.Days {
		sum += d.Hours
	}
	if sum != 15 {
		t.Fatalf("daily hours sum = %.2f, want 15", sum)
	}
}

func TestPipelineEmptyInterestsAdvancedProfile(t *testing.T) {
	t.Parallel()

	run, err := runnerx.New(offlineRegistry(t), nil)
	if err != nil {
		t.Fatalf("runner.New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{
		Role:       "Platform Engineer",
		Experience: "Advanced",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rc.Recommendations) == 0 {
		t.Fatal("advanced profile with no interests still needs recommendations")
	}
	if rc.Schedule == nil {
		t.Fatal("pipeline did not complete")
	}
}
