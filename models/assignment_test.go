package models

import (
	"strings"
	"testing"
	"time"
)

func TestStartWorkIsIdempotentOnStartTime(t *testing.T) {
	now := time.Now()
	a := Assignment{Status: AssignmentPending}

	if err := a.StartWork(now); err != nil {
		t.Fatalf("StartWork: %v", err)
	}
	if a.ActualStartTime == nil || !a.ActualStartTime.Equal(now) {
		t.Fatal("actualStartTime not stamped on first start")
	}

	later := now.Add(30 * time.Minute)
	if err := a.StartWork(later); err != nil {
		t.Fatalf("second StartWork: %v", err)
	}
	if !a.ActualStartTime.Equal(now) {
		t.Error("starting twice must not reset actualStartTime")
	}
}

func TestAcceptStampsStartTime(t *testing.T) {
	now := time.Now()
	a := Assignment{Status: AssignmentPending}

	if err := a.Accept(now); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if a.Status != AssignmentAccepted {
		t.Errorf("status = %q, want accepted", a.Status)
	}
	if a.ActualStartTime == nil || !a.ActualStartTime.Equal(now) {
		t.Error("accept must stamp actualStartTime when unset")
	}

	if err := a.Accept(now); err == nil {
		t.Error("accepting a non-pending assignment should fail")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	now := time.Now()

	a := Assignment{Status: AssignmentPending}
	if err := a.Reject("", now); err == nil {
		t.Error("reject with empty reason should fail")
	}

	a = Assignment{Status: AssignmentPending}
	if err := a.Reject(strings.Repeat("x", 201), now); err == nil {
		t.Error("reject with a reason over 200 chars should fail")
	}

	// 150 characters but 300 bytes; the limit counts characters.
	a = Assignment{Status: AssignmentPending}
	if err := a.Reject(strings.Repeat("ж", 150), now); err != nil {
		t.Errorf("reject with a 150-char multibyte reason should pass: %v", err)
	}

	a = Assignment{Status: AssignmentPending}
	if err := a.Reject("out of my trade", now); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if a.Status != AssignmentRejected {
		t.Errorf("status = %q, want rejected", a.Status)
	}

	if err := a.StartWork(now); err == nil {
		t.Error("rejected is terminal; starting work should fail")
	}
}

func TestCompleteValidatesMaterials(t *testing.T) {
	now := time.Now()
	a := Assignment{Status: AssignmentInProgress}

	bad := []Material{{Name: "pipe", Quantity: -1, Cost: 10}}
	if err := a.Complete("notes", 90, bad, now); err == nil {
		t.Error("negative material quantity should fail completion")
	}
	if a.Status != AssignmentInProgress {
		t.Error("failed completion must not change status")
	}

	good := []Material{{Name: "pipe", Quantity: 2, Unit: "m", Cost: 30}}
	if err := a.Complete("replaced pipe section", 90, good, now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if a.Status != AssignmentCompleted {
		t.Errorf("status = %q, want completed", a.Status)
	}
	if a.ActualCompletionTime == nil {
		t.Error("completion time not stamped")
	}
	if a.TimeSpentMinutes == nil || *a.TimeSpentMinutes != 90 {
		t.Error("time spent not recorded")
	}

	if err := a.Complete("again", 10, nil, now); err == nil {
		t.Error("complete is terminal; completing twice should fail")
	}
}

func TestDurationAndEfficiency(t *testing.T) {
	start := time.Now()
	end := start.Add(2 * time.Hour)
	estimate := 90 // minutes

	a := Assignment{
		Status:               AssignmentCompleted,
		EstimatedDuration:    &estimate,
		ActualStartTime:      &start,
		ActualCompletionTime: &end,
	}

	d := a.Duration()
	if d == nil || *d != 2*time.Hour {
		t.Fatalf("Duration() = %v, want 2h", d)
	}

	eff := a.Efficiency()
	if eff == nil {
		t.Fatal("Efficiency() = nil, want value")
	}
	if *eff != 75 {
		t.Errorf("Efficiency() = %v, want 75", *eff)
	}
}

func TestEfficiencyNilWhenDurationMissing(t *testing.T) {
	estimate := 90
	a := Assignment{EstimatedDuration: &estimate}
	if a.Efficiency() != nil {
		t.Error("efficiency must be nil without an actual duration")
	}

	start := time.Now()
	a.ActualStartTime = &start
	a.ActualCompletionTime = &start
	if a.Efficiency() != nil {
		t.Error("zero actual duration must not divide")
	}

	end := start.Add(time.Hour)
	a.ActualCompletionTime = &end
	a.EstimatedDuration = nil
	if a.Efficiency() != nil {
		t.Error("efficiency must be nil without an estimate")
	}
}
