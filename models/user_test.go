package models

import "testing"

func TestAddRatingScoreComputesMean(t *testing.T) {
	u := User{Role: RoleTechnician}

	for _, s := range []int{4, 5, 3} {
		if err := u.AddRatingScore(s); err != nil {
			t.Fatalf("AddRatingScore(%d): %v", s, err)
		}
	}

	if u.Rating.Average != 4.0 {
		t.Errorf("average after [4,5,3] = %v, want 4.0", u.Rating.Average)
	}
	if u.Rating.Count != 3 {
		t.Errorf("count = %d, want 3", u.Rating.Count)
	}

	// A fourth score recomputes the mean over all four values.
	if err := u.AddRatingScore(2); err != nil {
		t.Fatalf("AddRatingScore(2): %v", err)
	}
	if u.Rating.Average != 3.5 {
		t.Errorf("average after [4,5,3,2] = %v, want 3.5", u.Rating.Average)
	}
}

func TestAddRatingScoreRejectsNonTechnicians(t *testing.T) {
	for _, role := range []UserRole{RoleResident, RoleCommittee} {
		u := User{Role: role}
		if err := u.AddRatingScore(5); err == nil {
			t.Errorf("rating a %s should fail", role)
		}
		if u.Rating.Count != 0 || u.Rating.Average != 0 || len(u.Rating.Scores) != 0 {
			t.Errorf("failed rating must leave %s rating state unchanged", role)
		}
	}
}

func TestAddRatingScoreRejectsOutOfRange(t *testing.T) {
	u := User{Role: RoleTechnician}
	for _, s := range []int{0, 6, -1} {
		if err := u.AddRatingScore(s); err == nil {
			t.Errorf("score %d should be rejected", s)
		}
	}
	if u.Rating.Count != 0 {
		t.Error("rejected scores must not be recorded")
	}
}

func TestPasswordHashing(t *testing.T) {
	u := User{Password: "hunter22"}
	if err := u.HashPassword(); err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if u.Password == "hunter22" {
		t.Fatal("password stored in clear")
	}
	if !u.ComparePassword("hunter22") {
		t.Error("correct password rejected")
	}
	if u.ComparePassword("hunter23") {
		t.Error("wrong password accepted")
	}
}
