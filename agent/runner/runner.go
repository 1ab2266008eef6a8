// Package runner drives the four-stage certification pipeline: it invokes
// agents in handoff order, merges each result into the shared context, and
// reports progress to an observer.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "certpilot/agent/contract"
	roadmapx "certpilot/agent/roadmap"
)

// maxInvocations bounds a run. The stage order already forbids cycles; this
// is the backstop if an agent ever mishands off.
const maxInvocations = 4

type Runner struct {
	registry contractx.Registry
	notify   contractx.Notifier
	now      func() time.Time
}

func New(registry contractx.Registry, notify contractx.Notifier) (*Runner, error) {
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}
	if notify == nil {
		notify = noopNotifier{}
	}
	return &Runner{
		registry: registry,
		notify:   notify,
		now:      time.Now,
	}, nil
}

// Run executes the pipeline for one profile. The returned context is always
// non-nil: on stage failure it holds whatever the completed stages produced,
// alongside an error wrapping ErrStageFailure.
func (r *Runner) Run(ctx context.Context, profile roadmapx.Profile) (*roadmapx.Context, error) {
	rc := roadmapx.New(uuid.NewString(), profile, r.now())
	logger := log.With().Str("run_id", rc.RunID).Logger()

	current := contractx.StageGoal
	for i := 0; current != contractx.StageNone && i < maxInvocations; i++ {
		if err := ctx.Err(); err != nil {
			return rc, fmt.Errorf("pipeline canceled before stage %s: %w", current, err)
		}

		agent, ok := r.registry.Agent(current)
		if !ok {
			return rc, fmt.Errorf("%w: no agent registered for stage %s", contractx.ErrStageFailure, current)
		}

		r.notify.StageStarted(current)
		logger.Info().Str("stage", string(current)).Msg("stage started")

		res, err := agent.Execute(ctx, rc)
		if err != nil {
			logger.Error().Err(err).Str("stage", string(current)).Msg("stage failed without fallback")
			return rc, fmt.Errorf("stage %s: %w", current, err)
		}
		res.Stage = current

		res.Updates.Apply(rc)
		r.notify.StageCompleted(current, res)
		logger.Info().
			Str("stage", string(current)).
			Bool("fallback", res.Fallback).
			Str("next", string(res.Next)).
			Msg("stage completed")

		if !res.Success && res.Next == contractx.StageNone {
			return rc, fmt.Errorf("%w: stage %s: %s", contractx.ErrStageFailure, current, res.Message)
		}

		next := res.Next
		if next != contractx.StageNone && !next.After(current) {
			// a handoff that does not move forward would loop; stop here
			logger.Warn().
				Str("stage", string(current)).
				Str("next", string(next)).
				Msg("non-forward handoff rejected")
			return rc, fmt.Errorf("%w: stage %s handed off backwards to %s", contractx.ErrStageFailure, current, next)
		}
		current = next
	}

	if current != contractx.StageNone {
		return rc, fmt.Errorf("%w: pipeline exceeded %d stage invocations", contractx.ErrStageFailure, maxInvocations)
	}

	logger.Info().Msg("pipeline completed")
	return rc, nil
}

type noopNotifier struct{}

func (noopNotifier) StageStarted(contractx.Stage) {}

func (noopNotifier) StageCompleted(contractx.Stage, contractx.Result) {}

// LogNotifier reports pipeline progress through zerolog.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) StageStarted(stage contractx.Stage) {
	n.Logger.Info().Str("stage", string(stage)).Msg("entering stage")
}

func (n LogNotifier) StageCompleted(stage contractx.Stage, res contractx.Result) {
	n.Logger.Info().
		Str("stage", string(stage)).
		Bool("success", res.Success).
		Bool("fallback", res.Fallback).
		Msg(res.Message)
}
