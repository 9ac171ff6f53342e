package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray for the tag columns
	"gorm.io/gorm"
)

// User is the persisted profile behind a stable identifier.
// Its ID is the same stable id the friend-request system uses.
type User struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Age             int            `json:"age"`
	Gender          string         `json:"gender"`
	Interests       pq.StringArray `gorm:"type:text[]" json:"interests"`
	PersonalityTags pq.StringArray `gorm:"type:text[]" json:"personalityTags"`
	Bio             string         `gorm:"type:text" json:"bio"`
	Country         string         `json:"country"`
	Flag            string         `json:"flag"`
	Mode            string         `json:"mode"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// Profile converts the stored record into the in-memory profile shape.
func (u *User) Profile() Profile {
	return Profile{
		Name:            u.Name,
		Age:             u.Age,
		Gender:          u.Gender,
		Interests:       []string(u.Interests),
		PersonalityTags: []string(u.PersonalityTags),
		Bio:             u.Bio,
		Country:         u.Country,
		Flag:            u.Flag,
		Mode:            u.Mode,
	}
}

// ApplyProfile copies profile fields onto the record, leaving ID and
// timestamps untouched.
func (u *User) ApplyProfile(p Profile) {
	u.Name = p.Name
	u.Age = p.Age
	u.Gender = p.Gender
	u.Interests = pq.StringArray(p.Interests)
	u.PersonalityTags = pq.StringArray(p.PersonalityTags)
	u.Bio = p.Bio
	u.Country = p.Country
	u.Flag = p.Flag
	u.Mode = p.Mode
}
