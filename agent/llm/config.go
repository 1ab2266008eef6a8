package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "certpilot/agent/contract"
	openrouterx "certpilot/pkg/openrouter"
)

// Config carries the default model settings plus optional per-stage
// overrides. A negative temperature override means "use the default".
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1500"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	GoalModel               string  `envconfig:"GOAL_MODEL" split_words:"true"`
	PrerequisiteModel       string  `envconfig:"PREREQUISITE_MODEL" split_words:"true"`
	CurriculumModel         string  `envconfig:"CURRICULUM_MODEL" split_words:"true"`
	ScheduleModel           string  `envconfig:"SCHEDULE_MODEL" split_words:"true"`
	GoalTemperature         float32 `envconfig:"GOAL_TEMPERATURE" split_words:"true" default:"-1"`
	PrerequisiteTemperature float32 `envconfig:"PREREQUISITE_TEMPERATURE" split_words:"true" default:"-1"`
	CurriculumTemperature   float32 `envconfig:"CURRICULUM_TEMPERATURE" split_words:"true" default:"-1"`
	ScheduleTemperature     float32 `envconfig:"SCHEDULE_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings for one pipeline stage.
func (c Config) OpenRouterFor(stage contractx.Stage) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch stage {
	case contractx.StageGoal:
		override(c.GoalModel, c.GoalTemperature)
	case contractx.StagePrerequisite:
		override(c.PrerequisiteModel, c.PrerequisiteTemperature)
	case contractx.StageCurriculum:
		override(c.CurriculumModel, c.CurriculumTemperature)
	case contractx.StageSchedule:
		override(c.ScheduleModel, c.ScheduleTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

// SDK returns the config for the raw OpenAI client used by the preflight
// check.
func (c Config) SDK() openrouterx.Config {
	return c.OpenRouterFor(contractx.StageNone)
}
