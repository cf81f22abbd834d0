// Package services maps each backend REST endpoint to one method.
//
// Services are thin: they build the path and payload and return the normalized envelope unchanged.
package services

import (
	"context"
	"net/url"

	"github.com/petadoption/webclient/internal/api"
)

// Requester is the interface that wraps the normalized HTTP verbs of api.Client
type Requester interface {
	// Method Get issues a GET request. params are encoded as the query string.
	Get(ctx context.Context, path string, params url.Values) *api.Envelope
	// Method Post issues a POST request with an optional JSON body.
	Post(ctx context.Context, path string, body any) *api.Envelope
	// Method Put issues a PUT request with an optional JSON body.
	Put(ctx context.Context, path string, body any) *api.Envelope
	// Method Delete issues a DELETE request.
	Delete(ctx context.Context, path string) *api.Envelope
	// Method PostForm issues a multipart POST request.
	PostForm(ctx context.Context, path string, form *api.Form) *api.Envelope
	// Method PutForm issues a multipart PUT request.
	PutForm(ctx context.Context, path string, form *api.Form) *api.Envelope
}

// escape quotes an id for use as a path segment
func escape(id string) string {
	return url.PathEscape(id)
}
