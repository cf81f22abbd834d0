// Package validation checks form input before anything is sent to the backend.
package validation

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/petadoption/webclient/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 6

// Errors maps a form field to the message shown for it
type Errors map[string]string

// Error lists the field messages in field order
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[f])
	}
	return strings.Join(msgs, "; ")
}

// Err returns e as an error, or nil when there are no field errors
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		e[field] = message
	}
}

func (e Errors) email(field, value string) {
	if _, ok := e[field]; ok {
		return
	}
	if !emailRegex.MatchString(value) {
		e[field] = "Invalid email address"
	}
}

// PetForm is the pet create/edit form
type PetForm struct {
	Input models.PetInput
	// PhotoURL is an optional absolute image URL, ignored when a file is uploaded
	PhotoURL string
}

// Pet validates the pet form
func Pet(form PetForm) Errors {
	errs := Errors{}
	errs.required("name", form.Input.Name, "Name is required")
	errs.required("species", form.Input.Species, "Species is required")
	errs.required("breed", form.Input.Breed, "Breed is required")
	errs.required("status", string(form.Input.Status), "Status is required")
	if form.Input.Age <= 0 {
		errs["age"] = "Age must be positive"
	}
	if form.PhotoURL != "" && !isHTTPURL(form.PhotoURL) {
		errs["photoUrl"] = "Must be a valid URL"
	}
	return errs
}

// Login validates login credentials
func Login(creds models.Credentials) Errors {
	errs := Errors{}
	errs.required("email", creds.Email, "Email is required")
	errs.email("email", creds.Email)
	errs.required("password", creds.Password, "Password is required")
	return errs
}

// Register validates a registration
func Register(reg models.Registration) Errors {
	errs := Errors{}
	errs.required("name", reg.Name, "Name is required")
	errs.required("email", reg.Email, "Email is required")
	errs.email("email", reg.Email)
	errs.required("password", reg.Password, "Password is required")
	if _, ok := errs["password"]; !ok && len(reg.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

// Application validates an adoption application
func Application(input models.ApplicationInput) Errors {
	errs := Errors{}
	errs.required("petId", input.PetID.String(), "Pet is required")
	errs.required("message", input.Message, "Message is required")
	return errs
}

// ApplicationStatus validates a status an admin moves an application to
func ApplicationStatus(status models.Status) Errors {
	errs := Errors{}
	if !status.OneOf(models.ApplicationStatuses...) {
		errs["status"] = "Status must be pending, approved or rejected"
	}
	return errs
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
