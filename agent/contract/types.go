package contract

import (
	roadmapx "certpilot/agent/roadmap"
)

// Stage identifies one pipeline agent. Stages form a fixed total order and
// every handoff must move strictly forward through it, which is what makes
// the pipeline terminate in at most four invocations.
type Stage string

const (
	StageGoal         Stage = "goal"
	StagePrerequisite Stage = "prerequisite"
	StageCurriculum   Stage = "curriculum"
	StageSchedule     Stage = "schedule"

	// StageNone marks a terminal result with no handoff.
	StageNone Stage = ""
)

var stageOrder = map[Stage]int{
	StageGoal:         1,
	StagePrerequisite: 2,
	StageCurriculum:   3,
	StageSchedule:     4,
}

// Stages lists the pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{StageGoal, StagePrerequisite, StageCurriculum, StageSchedule}
}

func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Rank returns the stage's position in the pipeline order, 0 for StageNone
// or anything unknown.
func (s Stage) Rank() int {
	return stageOrder[s]
}

// After reports whether s comes strictly after other in the pipeline order.
func (s Stage) After(other Stage) bool {
	return s.Valid() && s.Rank() > other.Rank()
}

// Result is what one agent execution hands back to the runner. It is consumed
// immediately after the merge and never retained.
type Result struct {
	Stage   Stage            `json:"stage"`
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Next    Stage            `json:"next_agent,omitempty"`
	Updates roadmapx.Updates `json:"context_updates,omitempty"`

	// Fallback is true when the deterministic rule-based path produced the
	// payload because the model call failed or returned unusable output.
	Fallback bool `json:"fallback,omitempty"`
}
