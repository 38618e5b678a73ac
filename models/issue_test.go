package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSetStatusStampsTargetState(t *testing.T) {
	now := time.Now()
	issue := Issue{Status: StatusNew}

	issue.SetStatus(StatusAssigned, now)
	if issue.AssignedAt == nil || !issue.AssignedAt.Equal(now) {
		t.Error("assignedAt not stamped on transition to assigned")
	}
	if issue.StartedAt != nil || issue.ResolvedAt != nil || issue.ClosedAt != nil {
		t.Error("only the target state's timestamp should be stamped")
	}

	later := now.Add(time.Hour)
	issue.SetStatus(StatusResolved, later)
	if issue.ResolvedAt == nil || !issue.ResolvedAt.Equal(later) {
		t.Error("resolvedAt not stamped on transition to resolved")
	}
	if issue.StartedAt != nil {
		t.Error("skipping in_progress must leave startedAt unset")
	}
}

func TestSetStatusDirectlyToResolvedSkipsIntermediates(t *testing.T) {
	now := time.Now()
	issue := Issue{Status: StatusNew}

	issue.SetStatus(StatusResolved, now)

	if issue.ResolvedAt == nil || !issue.ResolvedAt.Equal(now) {
		t.Error("resolvedAt must be stamped even when intermediate states were skipped")
	}
	if issue.AssignedAt != nil || issue.StartedAt != nil {
		t.Error("skipped states must not be back-filled")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	assigned := now.Add(-3 * time.Hour)
	twoHours := 2

	tests := []struct {
		name  string
		issue Issue
		want  bool
	}{
		{
			"past estimate and still open",
			Issue{Status: StatusAssigned, AssignedAt: &assigned, EstimatedCompletionTime: &twoHours},
			true,
		},
		{
			"resolved issues are never overdue",
			Issue{Status: StatusResolved, AssignedAt: &assigned, EstimatedCompletionTime: &twoHours},
			false,
		},
		{
			"no estimate means never overdue",
			Issue{Status: StatusAssigned, AssignedAt: &assigned},
			false,
		},
		{
			"not yet assigned means never overdue",
			Issue{Status: StatusNew, EstimatedCompletionTime: &twoHours},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddressRoundTrip(t *testing.T) {
	in := Address{BlockNumber: "A", Area: "Ground Floor"}

	raw, err := bson.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Address
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out != in {
		t.Errorf("address round trip changed the value: got %+v, want %+v", out, in)
	}
}
