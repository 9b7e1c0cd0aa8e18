package model

import "strings"

// Topic families
type TopicFamily string

const (
	FamilyAlgebra            TopicFamily = "algebra"
	FamilyGeometry           TopicFamily = "geometry"
	FamilyCoordinateGeometry TopicFamily = "coordinate_geometry"
	FamilyTrigonometry       TopicFamily = "trigonometry"
	FamilyStatistics         TopicFamily = "statistics"
	FamilyGeneric            TopicFamily = "generic"
)

var ValidTopicFamilies = []TopicFamily{
	FamilyAlgebra, FamilyGeometry, FamilyCoordinateGeometry,
	FamilyTrigonometry, FamilyStatistics, FamilyGeneric,
}

// topicKeywords maps each family to the keywords that select it.
// Matching is case-insensitive substring matching; the coordinate group is
// checked first so "coordinate geometry" does not land in the geometry family.
var topicKeywords = []struct {
	family   TopicFamily
	keywords []string
}{
	{FamilyCoordinateGeometry, []string{"coordinate"}},
	{FamilyAlgebra, []string{"algebra", "equation", "linear", "quadratic"}},
	{FamilyGeometry, []string{"geometry", "triangle", "circle", "polygon"}},
	{FamilyTrigonometry, []string{"trigonometry", "sin", "cos", "tan"}},
	{FamilyStatistics, []string{"probability", "statistics", "data"}},
}

// ClassifyTopic maps a free-text topic onto a topic family. Unknown topics
// fall back to FamilyGeneric.
func ClassifyTopic(topic string) TopicFamily {
	t := strings.ToLower(topic)
	for _, group := range topicKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(t, kw) {
				return group.family
			}
		}
	}
	return FamilyGeneric
}

// Job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// Render quality presets. The preset selects both the manim CLI flag and the
// resolution subdirectory the renderer writes the video into.
type RenderQuality string

const (
	QualityLow    RenderQuality = "low"
	QualityMedium RenderQuality = "medium"
	QualityHigh   RenderQuality = "high"
)

// Flag returns the manim quality flag for the preset.
func (q RenderQuality) Flag() string {
	switch q {
	case QualityLow:
		return "-ql"
	case QualityMedium:
		return "-qm"
	default:
		return "-qh"
	}
}

// OutputDir returns the resolution subdirectory for the preset.
func (q RenderQuality) OutputDir() string {
	switch q {
	case QualityLow:
		return "480p15"
	case QualityMedium:
		return "720p30"
	default:
		return "1080p60"
	}
}
