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

// prerequisiteAgent judges whether the user satisfies the selected
// certification's prerequisites and what gaps remain.
type prerequisiteAgent struct {
	catalog *catalogx.Catalog
	runner  chatRunner
}

type prerequisiteLLMOutput struct {
	MeetsPrerequisites bool                `json:"meets_prerequisites"`
	Confidence         roadmapx.Confidence `json:"confidence_level"`
	KnowledgeGaps      []string            `json:"knowledge_gaps"`
	Preparation        []roadmapx.PrepStep `json:"preparation_recommendations"`
	Timeline           string              `json:"timeline"`
}

func newPrerequisiteAgent(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string, cat *catalogx.Catalog) (*prerequisiteAgent, error) {
	runner, err := compileChatGraph(ctx, chatModel, systemPrompt, "prerequisite.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile prerequisite graph: %v", contractx.ErrModelInvoke, err)
	}
	return &prerequisiteAgent{catalog: cat, runner: runner}, nil
}

func (a *prerequisiteAgent) Stage() contractx.Stage {
	return contractx.StagePrerequisite
}

func (a *prerequisiteAgent) Execute(ctx context.Context, rc *roadmapx.Context) (contractx.Result, error) {
	id := rc.SelectedID()
	if id == "" {
		return contractx.Result{}, fmt.Errorf("%w: prerequisite: no certification selected", contractx.ErrStageFailure)
	}
	rec, err := a.catalog.ByID(id)
	if err != nil {
		return contractx.Result{}, fmt.Errorf("%w: prerequisite: %v", contractx.ErrStageFailure, err)
	}

	analysis, degraded := a.analyze(ctx, rc.Profile, rec)
	analysis.CertificationID = strings.ToLower(rec.ID)

	msg := fmt.Sprintf("analyzed prerequisites for %s", strings.ToUpper(rec.ID))
	if degraded {
		msg += " (rule-based fallback)"
	}

	return contractx.Result{
		Stage:   contractx.StagePrerequisite,
		Success: true,
		Message: msg,
		Next:    contractx.StageCurriculum,
		Updates: roadmapx.Updates{
			Prerequisites: &analysis,
		},
		Fallback: degraded,
	}, nil
}

func (a *prerequisiteAgent) analyze(ctx context.Context, profile roadmapx.Profile, rec catalogx.Record) (roadmapx.GapAnalysis, bool) {
	reply, err := invokeChat(ctx, a.runner, map[string]any{
		"certification": map[string]any{
			"id":            rec.ID,
			"title":         rec.Title,
			"level":         rec.Level,
			"prerequisites": rec.Prerequisites,
		},
		"user_background": profile.Background,
		"user_experience": profile.Experience,
		"user_role":       profile.Role,
	})
	if err != nil {
		log.Debug().Err(err).Msg("prerequisite: model call failed, using fallback")
		return fallbackGapAnalysis(rec), true
	}

	out, err := decode[prerequisiteLLMOutput](reply)
	if err != nil {
		log.Debug().Err(err).Msg("prerequisite: structured parse failed, using fallback")
		return fallbackGapAnalysis(rec), true
	}
	if !out.Confidence.Valid() {
		out.Confidence = roadmapx.ConfidenceLow
	}
	if strings.TrimSpace(out.Timeline) == "" {
		out.Timeline = defaultGapTimeline
	}

	return roadmapx.GapAnalysis{
		MeetsPrerequisites: out.MeetsPrerequisites,
		Confidence:         out.Confidence,
		KnowledgeGaps:      out.KnowledgeGaps,
		Preparation:        out.Preparation,
		Timeline:           out.Timeline,
	}, false
}

const defaultGapTimeline = "2-3 weeks"

// fallbackGapAnalysis assumes prerequisites are met with low confidence.
// Certifications that state no prerequisites get high confidence instead.
func fallbackGapAnalysis(rec catalogx.Record) roadmapx.GapAnalysis {
	prereq := strings.ToLower(strings.TrimSpace(rec.Prerequisites))
	if prereq == "" || prereq == "none" {
		return roadmapx.GapAnalysis{
			MeetsPrerequisites: true,
			Confidence:         roadmapx.ConfidenceHigh,
			Timeline:           "ready now",
		}
	}
	return roadmapx.GapAnalysis{
		MeetsPrerequisites: true,
		Confidence:         roadmapx.ConfidenceLow,
		KnowledgeGaps:      []string{rec.Prerequisites},
		Preparation: []roadmapx.PrepStep{
			{
				Topic:         rec.Prerequisites,
				Resources:     []string{"Microsoft Learn fundamentals"},
				EstimatedTime: "10-15 hours",
			},
		},
		Timeline: defaultGapTimeline,
	}
}
