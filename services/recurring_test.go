package services

import (
	"testing"
	"time"

	"societysync-be/models"
)

func makeIssue(category models.IssueCategory, block string, age time.Duration, now time.Time) models.Issue {
	return models.Issue{
		Category:  category,
		Address:   models.Address{BlockNumber: block},
		CreatedAt: now.Add(-age),
	}
}

func TestDetectRecurringBelowThreshold(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		makeIssue(models.Water, "A", time.Hour, now),
		makeIssue(models.Water, "A", 2*time.Hour, now),
	}

	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 0 {
		t.Fatalf("expected no groups for 2 issues, got %d", len(groups))
	}
}

func TestDetectRecurringMediumSeverity(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		makeIssue(models.Water, "A", time.Hour, now),
		makeIssue(models.Water, "A", 2*time.Hour, now),
		makeIssue(models.Water, "A", 24*time.Hour, now),
	}

	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.RecentIssueCount != 3 {
		t.Errorf("recentIssueCount = %d, want 3", g.RecentIssueCount)
	}
	if g.Severity != SeverityMedium {
		t.Errorf("severity = %q, want %q", g.Severity, SeverityMedium)
	}
	if !g.IsAlert() {
		t.Error("group with 3 recent issues should be an alert")
	}
}

func TestDetectRecurringHighSeverity(t *testing.T) {
	now := time.Now()
	var issues []models.Issue
	for i := 0; i < 5; i++ {
		issues = append(issues, makeIssue(models.Water, "A", time.Duration(i)*time.Hour, now))
	}

	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Severity != SeverityHigh {
		t.Errorf("severity = %q, want %q", groups[0].Severity, SeverityHigh)
	}
	if groups[0].RecentIssueCount != 5 {
		t.Errorf("recentIssueCount = %d, want 5", groups[0].RecentIssueCount)
	}
}

func TestDetectRecurringOldIssuesAreNotAlerts(t *testing.T) {
	now := time.Now()
	// Three issues in the group, but all created before the recency window.
	issues := []models.Issue{
		makeIssue(models.Electrical, "B", 40*24*time.Hour, now),
		makeIssue(models.Electrical, "B", 50*24*time.Hour, now),
		makeIssue(models.Electrical, "B", 60*24*time.Hour, now),
	}

	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if g.TotalCount != 3 {
		t.Errorf("totalCount = %d, want 3", g.TotalCount)
	}
	if g.RecentIssueCount != 0 {
		t.Errorf("recentIssueCount = %d, want 0", g.RecentIssueCount)
	}
	if g.Severity != SeverityLow {
		t.Errorf("severity = %q, want %q", g.Severity, SeverityLow)
	}
	if g.IsAlert() {
		t.Error("group with no recent issues must not be an alert")
	}
}

func TestDetectRecurringCostSum(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		{Category: models.Plumbing, Address: models.Address{BlockNumber: "C"}, Cost: 100, CreatedAt: now.Add(-time.Hour)},
		{Category: models.Plumbing, Address: models.Address{BlockNumber: "C"}, Cost: 250, CreatedAt: now.Add(-time.Hour)},
		{Category: models.Plumbing, Address: models.Address{BlockNumber: "C"}, Cost: 50, CreatedAt: now.Add(-time.Hour)},
	}

	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].TotalCost != 400 {
		t.Errorf("totalCost = %v, want 400", groups[0].TotalCost)
	}
}

func TestDetectRecurringOrdering(t *testing.T) {
	now := time.Now()
	var issues []models.Issue
	// Medium group: 3 recent.
	for i := 0; i < 3; i++ {
		issues = append(issues, makeIssue(models.Water, "A", time.Hour, now))
	}
	// High group: 6 recent.
	for i := 0; i < 6; i++ {
		issues = append(issues, makeIssue(models.Electrical, "B", time.Hour, now))
	}
	// Another medium group with more recent issues: 4 recent.
	for i := 0; i < 4; i++ {
		issues = append(issues, makeIssue(models.Plumbing, "C", time.Hour, now))
	}

	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	if groups[0].Severity != SeverityHigh {
		t.Errorf("first group severity = %q, want high", groups[0].Severity)
	}
	if groups[1].RecentIssueCount != 4 || groups[2].RecentIssueCount != 3 {
		t.Errorf("medium groups not ordered by recent count: %d then %d",
			groups[1].RecentIssueCount, groups[2].RecentIssueCount)
	}
}

func TestLocationKey(t *testing.T) {
	tests := []struct {
		addr models.Address
		want string
	}{
		{models.Address{BlockNumber: "A", Area: "Garden"}, "A"},
		{models.Address{Area: "Clubhouse"}, "Clubhouse"},
		{models.Address{}, "unknown"},
	}

	for _, tt := range tests {
		if got := LocationKey(tt.addr); got != tt.want {
			t.Errorf("LocationKey(%+v) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestDetectRecurringSeparatesLocations(t *testing.T) {
	now := time.Now()
	issues := []models.Issue{
		makeIssue(models.Water, "A", time.Hour, now),
		makeIssue(models.Water, "A", time.Hour, now),
		makeIssue(models.Water, "B", time.Hour, now),
		makeIssue(models.Water, "B", time.Hour, now),
	}

	// Two issues per (category, block): neither group reaches the minimum.
	groups := DetectRecurring(issues, now, RecurrenceWindow)
	if len(groups) != 0 {
		t.Fatalf("expected no groups across distinct blocks, got %d", len(groups))
	}
}
