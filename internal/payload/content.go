package payload

import (
	"strings"
	"time"

	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/validation"
)

// CreatePostForm is the text part of the multipart post upload.
type CreatePostForm struct {
	Caption string `schema:"caption"`
}

func (f *CreatePostForm) Validate() validation.Violations {
	v := validation.Violations{}
	validation.MaxLength("caption", f.Caption, 2200, v)
	return v
}

type CreateEventRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Location         string `json:"location"`
	RegistrationLink string `json:"registrationLink"`

	when time.Time
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.RegistrationLink = strings.TrimSpace(r.RegistrationLink)
}

func (r *CreateEventRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("title", r.Title, v)
	validation.MaxLength("title", r.Title, 255, v)
	validation.Required("location", r.Location, v)
	validation.MaxLength("location", r.Location, 255, v)
	validation.Required("date", r.Date, v)
	if r.Date != "" {
		when, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			v["date"] = "invalid_date"
		}
		r.when = when
	}
	validation.URL("registrationLink", r.RegistrationLink, v)
	return v
}

// When is the parsed event date. Only meaningful after Validate.
func (r *CreateEventRequest) When() time.Time { return r.when }

type ApplyRequest struct {
	ClubID       string `json:"clubId"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	RollNumber   string `json:"rollNumber"`
	Reason       string `json:"reason"`
	CaptchaToken string `json:"captchaToken"`
}

func (r *ApplyRequest) Normalize() {
	r.ClubID = strings.TrimSpace(r.ClubID)
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.StudentEmail = normalizeEmail(r.StudentEmail)
	r.RollNumber = strings.TrimSpace(r.RollNumber)
}

func (r *ApplyRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("clubId", r.ClubID, v)
	validation.Required("studentName", r.StudentName, v)
	validation.MaxLength("studentName", r.StudentName, 255, v)
	validation.Required("studentEmail", r.StudentEmail, v)
	validation.Email("studentEmail", r.StudentEmail, v)
	validation.Required("rollNumber", r.RollNumber, v)
	validation.MaxLength("rollNumber", r.RollNumber, 100, v)
	validation.MaxLength("reason", r.Reason, 5000, v)
	return v
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() validation.Violations {
	v := validation.Violations{}
	validation.OneOf("status", r.Status, models.Statuses, v)
	return v
}
