package contract

import (
	"context"

	roadmapx "certpilot/agent/roadmap"
)

// Agent is one pipeline stage. Execute reads the context and produces a
// result; model-boundary failures must be absorbed into the stage's
// deterministic fallback. A non-nil error means the stage could not produce
// even a fallback result and the pipeline has to halt.
type Agent interface {
	Stage() Stage
	Execute(ctx context.Context, rc *roadmapx.Context) (Result, error)
}

// Registry resolves the agent implementation for a stage.
type Registry interface {
	Agent(stage Stage) (Agent, bool)
}

// Notifier observes pipeline progress. It is display-only: implementations
// must not mutate the context or the result.
type Notifier interface {
	StageStarted(stage Stage)
	StageCompleted(stage Stage, res Result)
}
