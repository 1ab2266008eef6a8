package roadmap

// Recommendation is one certification suggestion produced by the goal stage.
type Recommendation struct {
	CertificationID    string `json:"certification_id"`
	Title              string `json:"title"`
	Reasoning          string `json:"reasoning"`
	Difficulty         string `json:"difficulty"`
	EstimatedStudyTime string `json:"estimated_study_time"`
}

// Confidence grades how sure the prerequisite analysis is.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	default:
		return false
	}
}

// GapAnalysis is the prerequisite stage output.
type GapAnalysis struct {
	CertificationID    string     `json:"certification_id"`
	MeetsPrerequisites bool       `json:"meets_prerequisites"`
	Confidence         Confidence `json:"confidence_level"`
	KnowledgeGaps      []string   `json:"knowledge_gaps,omitempty"`
	Preparation        []PrepStep `json:"preparation_recommendations,omitempty"`
	Timeline           string     `json:"timeline"`
}

// PrepStep is one suggested piece of gap-closing work.
type PrepStep struct {
	Topic         string   `json:"topic"`
	Resources     []string `json:"resources,omitempty"`
	EstimatedTime string   `json:"estimated_time"`
}

// Plan is the curriculum stage output: a week-by-week study plan.
type Plan struct {
	CertificationID string     `json:"certification_id"`
	Title           string     `json:"title"`
	TotalStudyTime  string     `json:"total_study_time"`
	Weeks           []WeekPlan `json:"weekly_breakdown"`
	Resources       []string   `json:"resources,omitempty"`
}

type WeekPlan struct {
	Week       int      `json:"week"`
	Focus      string   `json:"focus"`
	Hours      float64  `json:"hours"`
	Activities []string `json:"activities,omitempty"`
}

// Schedule is the terminal stage output: day blocks plus milestones.
type Schedule struct {
	CertificationID string      `json:"certification_id"`
	TotalWeeks      int         `json:"total_weeks"`
	HoursPerWeek    int         `json:"hours_per_week"`
	Days            []DayBlock  `json:"daily_schedule"`
	Milestones      []Milestone `json:"milestones"`
	ExamTarget      string      `json:"exam_target"`
}

type DayBlock struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
	Focus string  `json:"focus"`
}

type Milestone struct {
	Week        int    `json:"week"`
	Title       string `json:"milestone"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
