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

const maxRecommendations = 3

// goalAgent analyzes the profile against the catalog and recommends
// certifications. It opens the pipeline and hands off to prerequisite.
type goalAgent struct {
	catalog *catalogx.Catalog
	runner  chatRunner
}

type goalLLMOutput struct {
	Recommendations []roadmapx.Recommendation `json:"recommendations"`
	Selected        string                    `json:"selected_certification"`
}

func newGoalAgent(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string, cat *catalogx.Catalog) (*goalAgent, error) {
	runner, err := compileChatGraph(ctx, chatModel, systemPrompt, "goal.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile goal graph: %v", contractx.ErrModelInvoke, err)
	}
	return &goalAgent{catalog: cat, runner: runner}, nil
}

func (a *goalAgent) Stage() contractx.Stage {
	return contractx.StageGoal
}

func (a *goalAgent) Execute(ctx context.Context, rc *roadmapx.Context) (contractx.Result, error) {
	candidates := a.candidates(rc.Profile)
	if len(candidates) == 0 {
		return contractx.Result{}, fmt.Errorf("%w: goal: certification catalog is empty", contractx.ErrStageFailure)
	}

	recs, degraded := a.recommend(ctx, rc.Profile, candidates)
	if len(recs) == 0 {
		recs = fallbackRecommendations(candidates)
		degraded = true
	}

	selected := recs[0].CertificationID
	msg := fmt.Sprintf("recommended %d certifications, selected %s", len(recs), strings.ToUpper(selected))
	if degraded {
		msg += " (rule-based fallback)"
	}

	return contractx.Result{
		Stage:   contractx.StageGoal,
		Success: true,
		Message: msg,
		Next:    contractx.StagePrerequisite,
		Updates: roadmapx.Updates{
			Recommendations:       recs,
			SelectedCertification: &selected,
		},
		Fallback: degraded,
	}, nil
}

// recommend asks the model for recommendations and validates every returned
// id against the catalog. Any failure on the model boundary yields
// (nil, true) so the caller switches to the deterministic pick.
func (a *goalAgent) recommend(ctx context.Context, profile roadmapx.Profile, candidates []catalogx.Record) ([]roadmapx.Recommendation, bool) {
	available := make([]map[string]any, 0, len(candidates))
	for _, rec := range candidates {
		available = append(available, map[string]any{
			"id":                   rec.ID,
			"title":                rec.Title,
			"level":                rec.Level,
			"category":             rec.Category,
			"description":          rec.Description,
			"estimated_study_time": rec.EstimatedStudyTime,
		})
	}

	reply, err := invokeChat(ctx, a.runner, map[string]any{
		"user_profile":             profile,
		"available_certifications": available,
	})
	if err != nil {
		log.Debug().Err(err).Msg("goal: model call failed, using fallback")
		return nil, true
	}

	out, err := decode[goalLLMOutput](reply)
	if err != nil {
		// degraded parse: scan the free-text reply for known catalog ids
		log.Debug().Err(err).Msg("goal: structured parse failed, scanning reply")
		return a.scanReply(reply), true
	}

	recs := a.validateRecommendations(out.Recommendations)
	if len(recs) == 0 {
		return a.scanReply(reply), true
	}

	// honor the model's explicit selection when it is one of its own picks
	if id := strings.ToLower(strings.TrimSpace(out.Selected)); id != "" {
		for i, r := range recs {
			if r.CertificationID == id && i > 0 {
				recs[0], recs[i] = recs[i], recs[0]
				break
			}
		}
	}

	return recs, false
}

// candidates filters the catalog by the profile's interests and orders the
// result for the stated experience level. An interests filter that matches
// nothing falls back to the whole catalog so the stage can always produce
// at least one recommendation.
func (a *goalAgent) candidates(profile roadmapx.Profile) []catalogx.Record {
	var out []catalogx.Record
	seen := make(map[string]bool)
	for _, interest := range profile.Interests {
		for rec := range a.catalog.Search(interest) {
			if !seen[rec.ID] {
				seen[rec.ID] = true
				out = append(out, rec)
			}
		}
	}
	if len(out) == 0 {
		out = a.catalog.All()
	}
	catalogx.RankForExperience(out, profile.IsBeginner())
	return out
}

func (a *goalAgent) validateRecommendations(recs []roadmapx.Recommendation) []roadmapx.Recommendation {
	out := make([]roadmapx.Recommendation, 0, maxRecommendations)
	seen := make(map[string]bool)
	for _, r := range recs {
		id := strings.ToLower(strings.TrimSpace(r.CertificationID))
		if id == "" || seen[id] {
			continue
		}
		rec, err := a.catalog.ByID(id)
		if err != nil {
			continue
		}
		seen[id] = true
		r.CertificationID = id
		if strings.TrimSpace(r.Title) == "" {
			r.Title = rec.Title
		}
		if strings.TrimSpace(r.Difficulty) == "" {
			r.Difficulty = string(rec.Level)
		}
		if strings.TrimSpace(r.EstimatedStudyTime) == "" {
			r.EstimatedStudyTime = rec.EstimatedStudyTime
		}
		out = append(out, r)
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}

// scanReply recovers recommendations from a free-text reply by looking for
// ids the catalog actually knows about.
func (a *goalAgent) scanReply(reply string) []roadmapx.Recommendation {
	lower := strings.ToLower(reply)
	var out []roadmapx.Recommendation
	for _, rec := range a.catalog.All() {
		if strings.Contains(lower, strings.ToLower(rec.ID)) {
			out = append(out, recommendationFromRecord(rec, "Mentioned in advisor response"))
			if len(out) == maxRecommendations {
				break
			}
		}
	}
	return out
}

func fallbackRecommendations(candidates []catalogx.Record) []roadmapx.Recommendation {
	n := min(maxRecommendations, len(candidates))
	out := make([]roadmapx.Recommendation, 0, n)
	for _, rec := range candidates[:n] {
		out = append(out, recommendationFromRecord(rec, "Best match for the stated interests and experience level"))
	}
	return out
}

func recommendationFromRecord(rec catalogx.Record, reasoning string) roadmapx.Recommendation {
	return roadmapx.Recommendation{
		CertificationID:    strings.ToLower(rec.ID),
		Title:              rec.Title,
		Reasoning:          reasoning,
		Difficulty:         string(rec.Level),
		EstimatedStudyTime: rec.EstimatedStudyTime,
	}
}
