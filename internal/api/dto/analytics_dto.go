package dto

import (
	"github.com/campus-desk/complaint-service/internal/repository"
	"github.com/campus-desk/complaint-service/internal/service"
)

// TimelinePoint is one day of the creation timeline.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// LabelCount is a grouped count keyed by its label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AnalyticsResponse is the dashboard payload. Grouped entries use readable
// date/label keys and charts bind to whatever key their series config names,
// so those are free to be descriptive. resoluationRate alone keeps its
// historical misspelling: consumers reference that field by name, and
// renaming it would break them.
type AnalyticsResponse struct {
	Timeline                  []TimelinePoint `json:"timeline"`
	Trends                    []LabelCount    `json:"trends"`
	AverageResolutionDuration string          `json:"averageResolutionDuration"`
	ResolutionRate            string          `json:"resoluationRate"`
	StatusDistribution        []LabelCount    `json:"statusDistribution"`
	PriorityDistribution      []LabelCount    `json:"priorityDistribution"`
	DelayByCategory           []LabelCount    `json:"delayByCategory"`
}

// NewAnalyticsResponse maps a service summary.
func NewAnalyticsResponse(summary *service.AnalyticsSummary) AnalyticsResponse {
	timeline := make([]TimelinePoint, 0, len(summary.Timeline))
	for _, bucket := range summary.Timeline {
		timeline = append(timeline, TimelinePoint{Date: bucket.Day, Count: bucket.Count})
	}
	return AnalyticsResponse{
		Timeline:                  timeline,
		Trends:                    labelCounts(summary.Trends),
		AverageResolutionDuration: summary.AverageResolutionDuration,
		ResolutionRate:            summary.ResolutionRate,
		StatusDistribution:        labelCounts(summary.StatusDistribution),
		PriorityDistribution:      labelCounts(summary.PriorityDistribution),
		DelayByCategory:           labelCounts(summary.DelayByCategory),
	}
}

func labelCounts(entries []repository.LabelCount) []LabelCount {
	items := make([]LabelCount, 0, len(entries))
	for _, entry := range entries {
		items = append(items, LabelCount{Label: entry.Label, Count: entry.Count})
	}
	return items
}
