package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one page of a list response
type Page[T any] struct {
	Items      []T `json:"items" yaml:"items"`
	Page       int `json:"page" yaml:"page"`
	Limit      int `json:"limit" yaml:"limit"`
	Total      int `json:"total" yaml:"total"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}

// Default list keys, tried in order when the data is an object
var listKeys = []string{"data", "items"}

// DecodePage reads a list from data.
//
// data may be a bare array, or an object holding the array under one of keys
// (or "data"/"items") next to optional page, limit and total fields.
// Any other shape yields an empty page.
func DecodePage[T any](data json.RawMessage, keys ...string) (Page[T], error) {
	var page Page[T]
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return page, nil
	}

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode list: %w", err)
		}
		return page, nil
	case '{':
	default:
		return page, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Page[T]{}, fmt.Errorf("failed to decode list: %w", err)
	}

	for _, key := range append(append([]string{}, keys...), listKeys...) {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode %q list: %w", key, err)
		}
		break
	}

	page.Page = lenientInt(obj["page"])
	page.Limit = lenientInt(obj["limit"])
	page.Total = lenientInt(obj["total"])
	if page.Total > 0 && page.Limit > 0 {
		page.TotalPages = (page.Total + page.Limit - 1) / page.Limit
	}
	return page, nil
}
