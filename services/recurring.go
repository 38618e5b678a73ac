package services

import (
	"sort"
	"time"

	"societysync-be/models"
)

// Recurring detection thresholds. A group needs at least MinGroupSize issues
// to be considered at all; severity banding looks at the recent count only.
const (
	MinGroupSize      = 3
	HighSeverityCount = 5
	RecurrenceWindow  = 30 * 24 * time.Hour

	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// RecurringAlert is one flagged (category, location) group of repeated
// issues. Recomputed fresh on every detection run; nothing is persisted.
type RecurringAlert struct {
	Category         models.IssueCategory `json:"category"`
	LocationKey      string               `json:"locationKey"`
	TotalCount       int                  `json:"totalCount"`
	RecentIssueCount int                  `json:"recentIssueCount"`
	TotalCost        float64              `json:"totalCost"`
	Severity         string               `json:"severity"`
}

// IsAlert reports whether the group qualifies for the dashboard. Total count
// alone does not qualify; the recent count has to clear the threshold.
func (a RecurringAlert) IsAlert() bool {
	return a.RecentIssueCount >= MinGroupSize
}

// LocationKey collapses an address to the coarse key used for grouping:
// block number if present, else the area text, else "unknown".
func LocationKey(addr models.Address) string {
	if addr.BlockNumber != "" {
		return addr.BlockNumber
	}
	if addr.Area != "" {
		return addr.Area
	}
	return "unknown"
}

// DetectRecurring groups issues by (category, location key) and returns every
// group with at least MinGroupSize members, ordered by severity descending
// then recent count descending. Recent means created within window of now.
func DetectRecurring(issues []models.Issue, now time.Time, window time.Duration) []RecurringAlert {
	type key struct {
		category models.IssueCategory
		location string
	}

	groups := make(map[key]*RecurringAlert)
	cutoff := now.Add(-window)

	for _, issue := range issues {
		k := key{issue.Category, LocationKey(issue.Address)}
		g, ok := groups[k]
		if !ok {
			g = &RecurringAlert{Category: k.category, LocationKey: k.location}
			groups[k] = g
		}
		g.TotalCount++
		g.TotalCost += issue.Cost
		if issue.CreatedAt.After(cutoff) {
			g.RecentIssueCount++
		}
	}

	alerts := make([]RecurringAlert, 0, len(groups))
	for _, g := range groups {
		if g.TotalCount < MinGroupSize {
			continue
		}
		g.Severity = severityFor(g.RecentIssueCount)
		alerts = append(alerts, *g)
	}

	sort.Slice(alerts, func(i, j int) bool {
		si, sj := severityRank(alerts[i].Severity), severityRank(alerts[j].Severity)
		if si != sj {
			return si > sj
		}
		return alerts[i].RecentIssueCount > alerts[j].RecentIssueCount
	})

	return alerts
}

func severityFor(recent int) string {
	switch {
	case recent >= HighSeverityCount:
		return SeverityHigh
	case recent >= MinGroupSize:
		return SeverityMedium
	}
	return SeverityLow
}

func severityRank(s string) int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	}
	return 0
}
