// internal/models/puppy.go
package models

import "time"

type PuppyGender string

const (
	GenderMale   PuppyGender = "male"
	GenderFemale PuppyGender = "female"
)

type Puppy struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Gender        PuppyGender `json:"gender"`
	AvailableDate Date        `json:"available_date"`
	ImageURL      string      `json:"image_url"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewPuppy is the admin form payload for listing a puppy.
type NewPuppy struct {
	Name          string      `json:"name"`
	Gender        PuppyGender `json:"gender"`
	AvailableDate string      `json:"available_date"`
	ImageURL      string      `json:"image_url"`
}
