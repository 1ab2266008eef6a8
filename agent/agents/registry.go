package agents

import (
	"context"
	"fmt"

	catalogx "certpilot/agent/catalog"
	contractx "certpilot/agent/contract"
	llmx "certpilot/agent/llm"
	promptx "certpilot/agent/prompt"
)

type registryImpl struct {
	agents map[contractx.Stage]contractx.Agent
}

func (r *registryImpl) Agent(stage contractx.Stage) (contractx.Agent, bool) {
	a, ok := r.agents[stage]
	return a, ok
}

// NewRegistry builds the four pipeline agents, each with its own prompt and
// (possibly stage-specific) chat model.
func NewRegistry(ctx context.Context, cfg llmx.Config, cat *catalogx.Catalog) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("%w: registry needs a non-empty catalog", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()

	goalCfg := cfg.OpenRouterFor(contractx.StageGoal)
	goalModel, err := goalCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create goal model: %v", contractx.ErrModelInvoke, err)
	}
	prereqCfg := cfg.OpenRouterFor(contractx.StagePrerequisite)
	prereqModel, err := prereqCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create prerequisite model: %v", contractx.ErrModelInvoke, err)
	}
	curriculumCfg := cfg.OpenRouterFor(contractx.StageCurriculum)
	curriculumModel, err := curriculumCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create curriculum model: %v", contractx.ErrModelInvoke, err)
	}
	scheduleCfg := cfg.OpenRouterFor(contractx.StageSchedule)
	scheduleModel, err := scheduleCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create schedule model: %v", contractx.ErrModelInvoke, err)
	}

	goal, err := newGoalAgent(ctx, goalModel, prompts.Goal, cat)
	if err != nil {
		return nil, err
	}
	prereq, err := newPrerequisiteAgent(ctx, prereqModel, prompts.Prerequisite, cat)
	if err != nil {
		return nil, err
	}
	curriculum, err := newCurriculumAgent(ctx, curriculumModel, prompts.Curriculum, cat)
	if err != nil {
		return nil, err
	}
	schedule, err := newScheduleAgent(ctx, scheduleModel, prompts.Schedule)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		agents: map[contractx.Stage]contractx.Agent{
			contractx.StageGoal:         goal,
			contractx.StagePrerequisite: prereq,
			contractx.StageCurriculum:   curriculum,
			contractx.StageSchedule:     schedule,
		},
	}, nil
}
