package runner

import (
	"context"
	"errors"
	"testing"

	contractx "certpilot/agent/contract"
	roadmapx "certpilot/agent/roadmap"
)

type stubAgent struct {
	stage contractx.Stage
	res   contractx.Result
	err   error
	calls int
}

func (s *stubAgent) Stage() contractx.Stage {
	return s.stage
}

func (s *stubAgent) Execute(ctx context.Context, rc *roadmapx.Context) (contractx.Result, error) {
	s.calls++
	return s.res, s.err
}

type stubRegistry map[contractx.Stage]*stubAgent

func (r stubRegistry) Agent(stage contractx.Stage) (contractx.Agent, bool) {
	a, ok := r[stage]
	return a, ok
}

func forwardingRegistry() stubRegistry {
	selected := "az-900"
	return stubRegistry{
		contractx.StageGoal: {
			stage: contractx.StageGoal,
			res: contractx.Result{
				Success: true,
				Next:    contractx.StagePrerequisite,
				Updates: roadmapx.Updates{SelectedCertification: &selected},
			},
		},
		contractx.StagePrerequisite: {
			stage: contractx.StagePrerequisite,
			res: contractx.Result{
				Success: true,
				Next:    contractx.StageCurriculum,
				Updates: roadmapx.Updates{Prerequisites: &roadmapx.GapAnalysis{MeetsPrerequisites: true}},
			},
		},
		contractx.StageCurriculum: {
			stage: contractx.StageCurriculum,
			res: contractx.Result{
				Success: true,
				Next:    contractx.StageSchedule,
				Updates: roadmapx.Updates{StudyPlan: &roadmapx.Plan{CertificationID: "az-900"}},
			},
		},
		contractx.StageSchedule: {
			stage: contractx.StageSchedule,
			res: contractx.Result{
				Success: true,
				Updates: roadmapx.Updates{Schedule: &roadmapx.Schedule{CertificationID: "az-900"}},
			},
		},
	}
}

func TestRunExecutesEachStageOnce(t *testing.T) {
	t.Parallel()

	reg := forwardingRegistry()
	run, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{Role: "Analyst"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rc.RunID == "" {
		t.Fatal("run id was not assigned")
	}
	for stage, agent := range reg {
		if agent.calls != 1 {
			t.Fatalf("stage %s executed %d times, want 1", stage, agent.calls)
		}
	}
	if rc.Schedule == nil || rc.StudyPlan == nil || rc.Prerequisites == nil {
		t.Fatal("stage outputs were not merged")
	}
}

func TestRunRejectsBackwardHandoff(t *testing.T) {
	t.Parallel()

	reg := forwardingRegistry()
	// curriculum trying to revisit goal would loop forever
	reg[contractx.StageCurriculum].res.Next = contractx.StageGoal

	run, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{})
	if !errors.Is(err, contractx.ErrStageFailure) {
		t.Fatalf("expected ErrStageFailure, got %v", err)
	}
	if reg[contractx.StageGoal].calls != 1 {
		t.Fatalf("goal executed %d times, want 1", reg[contractx.StageGoal].calls)
	}
	// the partial roadmap still carries everything merged so far
	if rc == nil || rc.StudyPlan == nil {
		t.Fatal("partial context missing merged study plan")
	}
}

func TestRunHaltsOnTerminalFailure(t *testing.T) {
	t.Parallel()

	reg := forwardingRegistry()
	reg[contractx.StagePrerequisite].res = contractx.Result{
		Success: false,
		Message: "no usable analysis",
	}

	run, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{})
	if !errors.Is(err, contractx.ErrStageFailure) {
		t.Fatalf("expected ErrStageFailure, got %v", err)
	}
	if rc.SelectedID() != "az-900" {
		t.Fatal("partial context missing the goal stage output")
	}
	if reg[contractx.StageCurriculum].calls != 0 {
		t.Fatal("curriculum ran after a terminal failure")
	}
}

func TestRunSurfacesAgentError(t *testing.T) {
	t.Parallel()

	reg := forwardingRegistry()
	reg[contractx.StageGoal].err = contractx.ErrStageFailure

	run, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rc, err := run.Run(context.Background(), roadmapx.Profile{})
	if !errors.Is(err, contractx.ErrStageFailure) {
		t.Fatalf("expected ErrStageFailure, got %v", err)
	}
	if rc == nil {
		t.Fatal("context must be returned even on failure")
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	reg := forwardingRegistry()
	run, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = run.Run(ctx, roadmapx.Profile{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if reg[contractx.StageGoal].calls != 0 {
		t.Fatal("agent ran despite canceled context")
	}
}

func TestRunRequiresRegisteredAgents(t *testing.T) {
	t.Parallel()

	reg := forwardingRegistry()
	delete(reg, contractx.StageSchedule)

	run, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = run.Run(context.Background(), roadmapx.Profile{})
	if !errors.Is(err, contractx.ErrStageFailure) {
		t.Fatalf("expected ErrStageFailure, got %v", err)
	}
}
