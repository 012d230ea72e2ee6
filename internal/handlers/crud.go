package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/middleware"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
	"github.com/1997daniela/employeeVaccineInventory/internal/utils"
)

// ListCache stores serialized collection responses. A nil ListCache
// disables caching.
// Get reports the generation it read; Set must be given that generation.
type ListCache interface {
	Get(ctx context.Context, resource, query string) (payload []byte, gen int64, ok bool, err error)
	Set(ctx context.Context, resource, query string, gen int64, payload []byte) error
	Invalidate(ctx context.Context, resource string) error
}

// Deps are shared by every handler.
type Deps struct {
	Store  repository.Store
	Cache  ListCache
	Alerts utils.Alerts
	Logger *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// crud serves the six REST operations of one entity type.
type crud[T any] struct {
	Deps
	entity      string // alert key, e.g. "vaccine"
	resource    string // path segment, e.g. "vaccines"
	sortColumns map[string]string
	// dependents are resources whose cached pages embed this entity.
	dependents []string

	list     func(ctx context.Context, opts repository.ListOptions) ([]T, error)
	get      func(ctx context.Context, id int64) (T, error)
	create   func(ctx context.Context, v T) (T, error)
	update   func(ctx context.Context, v T) (T, error)
	remove   func(ctx context.Context, id int64) (T, error)
	id       func(v T) (int64, bool)
	validate func(v *T) error
	merge    func(dst *T, patch T)
}

func (c *crud[T]) handleList(w http.ResponseWriter, r *http.Request) {
	opts, query, err := listOptions(r.URL.Query(), c.sortColumns)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx := r.Context()

	var gen int64
	cacheable := c.Cache != nil
	if cacheable {
		payload, g, ok, err := c.Cache.Get(ctx, c.resource, query)
		gen = g
		if err != nil {
			cacheable = false
			c.logger().Warn("list cache read failed", zap.String("resource", c.resource), zap.Error(err))
		} else if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
	}

	items, err := c.list(ctx, opts)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(items); err != nil {
		c.writeError(w, r, err)
		return
	}
	if cacheable {
		if err := c.Cache.Set(ctx, c.resource, query, gen, buf.Bytes()); err != nil {
			c.logger().Warn("list cache write failed", zap.String("resource", c.resource), zap.Error(err))
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (c *crud[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := c.get(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, item)
}

func (c *crud[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body T
	if !decode(w, r, &body) {
		return
	}
	if _, hasID := c.id(body); hasID {
		c.badRequest(w, "idexists", "A new "+c.entity+" cannot already have an ID")
		return
	}
	if err := c.validate(&body); err != nil {
		c.writeError(w, r, err)
		return
	}
	created, err := c.create(r.Context(), body)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	c.invalidate(r.Context())

	id, _ := c.id(created)
	idStr := strconv.FormatInt(id, 10)
	w.Header().Set("Location", "/api/"+c.resource+"/"+idStr)
	c.Alerts.Created(w, c.entity, idStr)
	utils.WriteJSONResponse(w, http.StatusCreated, created)
}

func (c *crud[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := c.decodeWithID(w, r)
	if !ok {
		return
	}
	if err := c.validate(&body); err != nil {
		c.writeError(w, r, err)
		return
	}
	c.save(w, r, body)
}

func (c *crud[T]) handlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	patch, ok := c.decodeWithID(w, r)
	if !ok {
		return
	}
	id, _ := c.id(patch)
	existing, err := c.get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.badRequest(w, "idnotfound", "Entity not found")
		return
	}
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	c.merge(&existing, patch)
	if err := c.validate(&existing); err != nil {
		c.writeError(w, r, err)
		return
	}
	c.save(w, r, existing)
}

func (c *crud[T]) save(w http.ResponseWriter, r *http.Request, v T) {
	updated, err := c.update(r.Context(), v)
	if errors.Is(err, repository.ErrNotFound) {
		c.badRequest(w, "idnotfound", "Entity not found")
		return
	}
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	c.invalidate(r.Context())

	id, _ := c.id(updated)
	c.Alerts.Updated(w, c.entity, strconv.FormatInt(id, 10))
	utils.WriteJSONResponse(w, http.StatusOK, updated)
}

func (c *crud[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	prior, err := c.remove(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	c.invalidate(r.Context())

	c.Alerts.Deleted(w, c.entity, strconv.FormatInt(id, 10))
	utils.WriteJSONResponse(w, http.StatusOK, prior)
}

// decodeWithID reads a body whose id must be present and match the path.
func (c *crud[T]) decodeWithID(w http.ResponseWriter, r *http.Request) (T, bool) {
	var body T
	id, ok := pathID(w, r)
	if !ok {
		return body, false
	}
	if !decode(w, r, &body) {
		return body, false
	}
	bodyID, hasID := c.id(body)
	if !hasID {
		c.badRequest(w, "idnull", "Invalid id")
		return body, false
	}
	if bodyID != id {
		c.badRequest(w, "idinvalid", "Invalid ID")
		return body, false
	}
	return body, true
}

func (c *crud[T]) invalidate(ctx context.Context) {
	if c.Cache == nil {
		return
	}
	for _, resource := range append([]string{c.resource}, c.dependents...) {
		if err := c.Cache.Invalidate(ctx, resource); err != nil {
			c.logger().Warn("list cache invalidation failed", zap.String("resource", resource), zap.Error(err))
		}
	}
}

func (c *crud[T]) badRequest(w http.ResponseWriter, key, message string) {
	c.Alerts.BadRequest(w, c.entity, key)
	utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", message)
}

func (c *crud[T]) writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, c.logger(), err)
}

// writeError maps validation and repository errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation failed", verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, repository.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, repository.ErrInvalidReference):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		logger.Error("request failed",
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// listOptions parses page, size and sort. The returned query string is the
// canonical cache key; cacheBuster is deliberately left out of it.
func listOptions(q url.Values, sortColumns map[string]string) (repository.ListOptions, string, error) {
	var opts repository.ListOptions
	canonical := url.Values{}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, "", fmt.Errorf("page must be a non-negative integer")
		}
		opts.Page = n
		canonical.Set("page", v)
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, "", fmt.Errorf("size must be a non-negative integer")
		}
		opts.Size = n
		canonical.Set("size", v)
	}
	sort, err := repository.ParseSort(q["sort"], sortColumns)
	if err != nil {
		return opts, "", err
	}
	opts.Sort = sort
	for _, s := range q["sort"] {
		canonical.Add("sort", s)
	}
	return opts, canonical.Encode(), nil
}
