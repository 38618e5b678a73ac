package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRole enum
type UserRole string

const (
	RoleResident   UserRole = "resident"
	RoleCommittee  UserRole = "committee"
	RoleTechnician UserRole = "technician"
)

// ValidRole reports whether s is one of the recognized roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleResident, RoleCommittee, RoleTechnician:
		return true
	}
	return false
}

// Rating holds a technician's feedback score history. Average is the
// arithmetic mean over all of Scores, recomputed on every append.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
	Scores  []int   `bson:"scores,omitempty" json:"-"`
}

type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password,omitempty" json:"-"`
	Phone             string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role              UserRole           `bson:"role" json:"role"`
	BlockNumber       string             `bson:"blockNumber,omitempty" json:"blockNumber,omitempty"`
	ApartmentNumber   string             `bson:"apartmentNumber,omitempty" json:"apartmentNumber,omitempty"`
	PreferredLanguage string             `bson:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`
	Specialization    string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Rating            Rating             `bson:"rating" json:"rating"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// AddRatingScore appends a 1-5 feedback score and recomputes the mean over
// the full score history. Only technicians accumulate ratings.
func (u *User) AddRatingScore(score int) error {
	if u.Role != RoleTechnician {
		return fmt.Errorf("cannot rate user with role %q: only technicians are rated", u.Role)
	}
	if score < 1 || score > 5 {
		return fmt.Errorf("rating score must be between 1 and 5, got %d", score)
	}

	u.Rating.Scores = append(u.Rating.Scores, score)
	u.Rating.Count = len(u.Rating.Scores)

	sum := 0
	for _, s := range u.Rating.Scores {
		sum += s
	}
	u.Rating.Average = float64(sum) / float64(u.Rating.Count)
	return nil
}
