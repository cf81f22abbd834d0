package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// Form is a multipart body for upload requests (pet photos).
//
// A Form is encoded once: file readers are consumed by the request that sends it.
type Form struct {
	fields []formField
	files  []formFile
}

// NewForm creates an empty multipart form
func NewForm() *Form {
	return &Form{}
}

// Set appends a text field
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part read from content
func (f *Form) AddFile(field, filename string, content io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// Value returns the first value set for name
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}
	return "", false
}

// HasFile reports whether a file part was added for field
func (f *Form) HasFile(field string) bool {
	for _, file := range f.files {
		if file.field == field {
			return true
		}
	}
	return false
}

// encode writes the form as multipart and returns the body with its content type
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %q: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %q: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
