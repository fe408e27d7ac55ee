// internal/models/testimonial.go
package models

import "time"

type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type NewTestimonial struct {
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}
