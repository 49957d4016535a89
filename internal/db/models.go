package db

import (
	"time"

	"gorm.io/datatypes"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/answer"
	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/recommend"
	"github.com/geospy/geospy-api/internal/structure"
)

type URLRole string

const (
	RoleTarget     URLRole = "target"
	RoleCompetitor URLRole = "competitor"
)

// User represents an authenticated user
type User struct {
	ID        uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string       `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Password  string       `gorm:"not null;size:255" json:"-"`
	Plan      billing.Plan `gorm:"size:20;not null;default:'free'" json:"plan"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Project groups the pages a user optimises for one topic.
type Project struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"index;not null" json:"user_id"`
	Name        string       `gorm:"not null;size:200" json:"name"`
	TargetTopic string       `gorm:"not null;size:500" json:"target_topic"`
	URLs        []TrackedURL `gorm:"foreignKey:ProjectID" json:"urls,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	User        User         `gorm:"foreignKey:UserID" json:"-"`
}

// TrackedURL is a target or competitor page of a project.
type TrackedURL struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	Address   string    `gorm:"not null;size:768" json:"address"`
	Role      URLRole   `gorm:"size:20;not null" json:"role"`
	Domain    string    `gorm:"size:255" json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

// ScrapedContent is one scrape of a tracked URL. Rescrapes add rows.
type ScrapedContent struct {
	ID           uint                                   `gorm:"primaryKey" json:"id"`
	TrackedURLID uint                                   `gorm:"index;not null" json:"tracked_url_id"`
	H1s          datatypes.JSONSlice[string]            `json:"h1s"`
	H2s          datatypes.JSONSlice[string]            `json:"h2s"`
	H3s          datatypes.JSONSlice[string]            `json:"h3s"`
	WordCount    int                                    `json:"word_count"`
	Hierarchy    datatypes.JSONSlice[structure.Section] `json:"hierarchy"`
	RawContent   string                                 `gorm:"type:mediumtext" json:"-"`
	Status       crawler.Status                         `gorm:"size:20;index;not null" json:"status"`
	Error        string                                 `gorm:"type:text" json:"error,omitempty"`
	CreatedAt    time.Time                              `gorm:"index" json:"created_at"`
}

// Structure rebuilds the extracted outline.
func (s *ScrapedContent) Structure() structure.Structure {
	return structure.Structure{
		H1s:       s.H1s,
		H2s:       s.H2s,
		H3s:       s.H3s,
		WordCount: s.WordCount,
		Sections:  s.Hierarchy,
	}
}

// AIAnswer is a reference answer produced by the completion service.
type AIAnswer struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ProjectID     uint                        `gorm:"index;not null" json:"project_id"`
	Query         string                      `gorm:"type:text;not null" json:"query"`
	EnhancedQuery string                      `gorm:"type:text" json:"enhanced_query,omitempty"`
	Answer        string                      `gorm:"type:mediumtext" json:"answer"`
	Format        answer.Format               `gorm:"size:20" json:"format"`
	KeyConcepts   datatypes.JSONSlice[string] `json:"key_concepts"`
	Entities      datatypes.JSONSlice[string] `json:"entities"`
	Metadata      datatypes.JSONMap           `json:"metadata"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
}

// AnalysisResult is one coverage analysis. Results are never updated.
type AnalysisResult struct {
	ID                 uint                                            `gorm:"primaryKey" json:"id"`
	ProjectID          uint                                            `gorm:"index;not null" json:"project_id"`
	AIAnswerID         uint                                            `gorm:"index;not null" json:"ai_answer_id"`
	TopicsPresent      datatypes.JSONSlice[string]                     `json:"topics_present"`
	TopicsMissing      datatypes.JSONSlice[string]                     `json:"topics_missing"`
	TopicsWeak         datatypes.JSONSlice[string]                     `json:"topics_weak"`
	TopicDetails       datatypes.JSONSlice[analysis.TopicDetail]       `json:"topic_details"`
	StructuralPatterns datatypes.JSONType[analysis.StructuralPatterns] `json:"structural_patterns"`
	DepthScore         int                                             `json:"depth_score"`
	CompetitorCoverage datatypes.JSONType[analysis.CompetitorCoverage] `json:"competitor_coverage"`
	CreatedAt          time.Time                                       `gorm:"index" json:"analyzed_at"`
}

// Result converts the row back into the analyzer's result type.
func (a *AnalysisResult) Result() *analysis.Result {
	return &analysis.Result{
		TopicsPresent:      a.TopicsPresent,
		TopicsMissing:      a.TopicsMissing,
		TopicsWeak:         a.TopicsWeak,
		TopicDetails:       a.TopicDetails,
		StructuralPatterns: a.StructuralPatterns.Data(),
		DepthScore:         a.DepthScore,
		CompetitorCoverage: a.CompetitorCoverage.Data(),
	}
}

// Recommendation is one action item batch entry derived from an analysis.
type Recommendation struct {
	ID               uint                                      `gorm:"primaryKey" json:"id"`
	AnalysisResultID uint                                      `gorm:"index;not null" json:"analysis_result_id"`
	ProjectID        uint                                      `gorm:"index;not null" json:"project_id"`
	Priority         recommend.Priority                        `gorm:"size:10;not null" json:"priority"`
	Category         recommend.Category                        `gorm:"size:30;not null" json:"category"`
	Title            string                                    `gorm:"size:500;not null" json:"title"`
	Description      string                                    `gorm:"type:text" json:"description"`
	ActionItems      datatypes.JSONSlice[recommend.ActionItem] `json:"action_items"`
	ExpectedImpact   string                                    `gorm:"type:text" json:"expected_impact"`
	CreatedAt        time.Time                                 `gorm:"index" json:"created_at"`
}
