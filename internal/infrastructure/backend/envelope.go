package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// Page is a list response with its envelope removed. Meta and Links are
// passed through untouched when the backend paginates.
type Page[T any] struct {
	Items []T
	Meta  json.RawMessage
	Links json.RawMessage
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Members json.RawMessage `json:"members"`
	Meta    json.RawMessage `json:"meta"`
	Links   json.RawMessage `json:"links"`
}

// Unwrap flattens every list shape the backend produces into one Page:
//
//	[ ... ]
//	{ "data": [ ... ] }
//	{ "data": { "data": [ ... ], "meta": ..., "links": ... } }
//
// Objects that carry no recognisable list yield an empty page.
func Unwrap[T any](raw json.RawMessage) (Page[T], error) {
	return unwrap[T](raw, 0)
}

func unwrap[T any](raw json.RawMessage, depth int) (Page[T], error) {
	var page Page[T]
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		page.Items = []T{}
		return page, nil
	}

	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return page, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		return page, nil
	case '{':
	default:
		return page, fmt.Errorf("%w: expected a list, got %.20s", domain.ErrMalformedResponse, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return page, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	inner := bytes.TrimSpace(env.Data)
	if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
		inner = bytes.TrimSpace(env.Members)
	}

	switch {
	case len(inner) > 0 && inner[0] == '[':
		page, err := unwrap[T](inner, depth+1)
		page.Meta, page.Links = env.Meta, env.Links
		return page, err
	case len(inner) > 0 && inner[0] == '{' && depth == 0:
		page, err := unwrap[T](inner, depth+1)
		if page.Meta == nil {
			page.Meta = env.Meta
		}
		if page.Links == nil {
			page.Links = env.Links
		}
		return page, err
	default:
		page.Items = []T{}
		page.Meta, page.Links = env.Meta, env.Links
		return page, nil
	}
}
