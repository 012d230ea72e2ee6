package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// QueryParams pages and orders a collection read.
type QueryParams struct {
	Page int
	Size int
	// Sort terms are "field,asc" or "field,desc".
	Sort []string
}

func (q *QueryParams) values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	for _, s := range q.Sort {
		v.Add("sort", s)
	}
	return v
}

// EntityClient performs the REST calls of one resource, e.g. "vaccines".
type EntityClient[T any] struct {
	c        *Client
	resource string
}

func NewEntityClient[T any](c *Client, resource string) *EntityClient[T] {
	return &EntityClient[T]{c: c, resource: resource}
}

func (e *EntityClient[T]) Resource() string { return e.resource }

func (e *EntityClient[T]) collection() string { return "/api/" + e.resource }

func (e *EntityClient[T]) item(id int64) string {
	return e.collection() + "/" + strconv.FormatInt(id, 10)
}

// List fetches the collection. q may be nil.
func (e *EntityClient[T]) List(ctx context.Context, q *QueryParams) ([]T, error) {
	query := q.values()
	query.Set("cacheBuster", e.c.cacheBuster())
	var out []T
	if err := e.c.Do(ctx, http.MethodGet, e.collection(), query, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *EntityClient[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := e.c.Do(ctx, http.MethodGet, e.item(id), nil, "", nil, &out)
	return out, err
}

func (e *EntityClient[T]) Create(ctx context.Context, v T) (T, error) {
	return e.write(ctx, http.MethodPost, e.collection(), contentTypeJSON, v)
}

func (e *EntityClient[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	return e.write(ctx, http.MethodPut, e.item(id), contentTypeJSON, v)
}

func (e *EntityClient[T]) PartialUpdate(ctx context.Context, id int64, v T) (T, error) {
	return e.write(ctx, http.MethodPatch, e.item(id), contentTypeMergePatch, v)
}

// Delete returns the prior representation, or the zero T when the server
// answers with an empty body.
func (e *EntityClient[T]) Delete(ctx context.Context, id int64) (T, error) {
	var out T
	err := e.c.Do(ctx, http.MethodDelete, e.item(id), nil, "", nil, &out)
	return out, err
}

func (e *EntityClient[T]) write(ctx context.Context, method, path, contentType string, v T) (T, error) {
	var out T
	payload, err := CleanPayload(v)
	if err != nil {
		return out, &APIError{Message: err.Error(), Err: err}
	}
	err = e.c.Do(ctx, method, path, nil, contentType, payload, &out)
	return out, err
}

// CleanPayload encodes v as a JSON object and drops null fields, empty
// strings and relation objects without a usable id ("" or -1 or absent).
func CleanPayload(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("clean payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("clean payload: %w", err)
	}
	for key, value := range fields {
		switch val := value.(type) {
		case nil:
			delete(fields, key)
		case string:
			if val == "" {
				delete(fields, key)
			}
		case map[string]any:
			if !hasUsableID(val) {
				delete(fields, key)
			}
		}
	}
	return fields, nil
}

func hasUsableID(relation map[string]any) bool {
	switch id := relation["id"].(type) {
	case json.Number:
		return id.String() != "-1"
	case string:
		return id != "" && id != "-1"
	}
	return false
}
