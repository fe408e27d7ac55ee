// internal/models/waitlist.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus is the review state of a waitlist application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

// Terminal reports whether no further transition is defined from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s ApplicationStatus) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// ParseApplicationStatus accepts the canonical spelling in any letter case.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	for _, s := range []ApplicationStatus{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", raw)
}

// WaitlistApplication is one entry of the puppy adoption waitlist.
type WaitlistApplication struct {
	ID               string            `json:"id"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            string            `json:"email"`
	PhoneNumber      string            `json:"phone_number"`
	ApplicationDate  Date              `json:"application_date"`
	Status           ApplicationStatus `json:"status"`
	GenderPreference *string           `json:"gender_preference"`
	LivingSituation  *string           `json:"living_situation"`
}

// FullName is used in notifications and the detail view title.
func (a WaitlistApplication) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
