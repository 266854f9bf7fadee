// Package types provides type definitions for structured data used throughout the interview coach.
package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ExperienceBand is an enumerated bucket of years of experience.
type ExperienceBand string

// Experience bands offered by the profile form.
const (
	Experience0To1  ExperienceBand = "0-1"
	Experience2To3  ExperienceBand = "2-3"
	Experience4To6  ExperienceBand = "4-6"
	Experience7To10 ExperienceBand = "7-10"
	Experience10Up  ExperienceBand = "10+"
)

// ExperienceBands lists every band in ascending order.
var ExperienceBands = []ExperienceBand{
	Experience0To1,
	Experience2To3,
	Experience4To6,
	Experience7To10,
	Experience10Up,
}

// Label returns the human-readable seniority for the band.
func (b ExperienceBand) Label() string {
	switch b {
	case Experience0To1:
		return "Entry Level"
	case Experience2To3:
		return "Junior"
	case Experience4To6:
		return "Mid Level"
	case Experience7To10:
		return "Senior"
	case Experience10Up:
		return "Expert"
	default:
		return string(b)
	}
}

// Valid reports whether b is one of the known bands.
func (b ExperienceBand) Valid() bool {
	for _, known := range ExperienceBands {
		if b == known {
			return true
		}
	}
	return false
}

// ProfileRequest is the candidate profile as submitted by the profile form.
type ProfileRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	JobTitle      string `json:"job_title" validate:"required"`
	Experience    string `json:"experience" validate:"required,oneof=0-1 2-3 4-6 7-10 10+"`
	Skills        string `json:"skills" validate:"required"`
	ResumeSummary string `json:"resume_summary,omitempty"`
	APIKey        string `json:"api_key" validate:"required"`
}

// Profile is the captured candidate profile. It is immutable for the lifetime of a session.
type Profile struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	JobTitle      string         `json:"job_title"`
	Experience    ExperienceBand `json:"experience"`
	Skills        string         `json:"skills"`
	ResumeSummary string         `json:"resume_summary,omitempty"`
	// APICredential authorizes chat calls for this session only and is never serialized.
	APICredential string `json:"-"`
}

var validate = validator.New()

// Validate checks the request and returns a *ValidationError listing every offending field.
func (r *ProfileRequest) Validate() error {
	trimmed := r.normalized()
	err := validate.Struct(&trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   jsonFieldName(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

// ToProfile validates the request and converts it into an immutable Profile.
func (r *ProfileRequest) ToProfile() (Profile, error) {
	if err := r.Validate(); err != nil {
		return Profile{}, err
	}
	n := r.normalized()
	return Profile{
		Name:          n.Name,
		Email:         n.Email,
		JobTitle:      n.JobTitle,
		Experience:    ExperienceBand(n.Experience),
		Skills:        n.Skills,
		ResumeSummary: n.ResumeSummary,
		APICredential: n.APIKey,
	}, nil
}

func (r *ProfileRequest) normalized() ProfileRequest {
	return ProfileRequest{
		Name:          strings.TrimSpace(r.Name),
		Email:         strings.TrimSpace(r.Email),
		JobTitle:      strings.TrimSpace(r.JobTitle),
		Experience:    strings.TrimSpace(r.Experience),
		Skills:        strings.TrimSpace(r.Skills),
		ResumeSummary: strings.TrimSpace(r.ResumeSummary),
		APIKey:        strings.TrimSpace(r.APIKey),
	}
}

func jsonFieldName(structField string) string {
	switch structField {
	case "JobTitle":
		return "job_title"
	case "ResumeSummary":
		return "resume_summary"
	case "APIKey":
		return "api_key"
	default:
		return strings.ToLower(structField)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
