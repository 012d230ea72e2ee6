// Package actions runs the REST operations of an entity and records each
// request's lifecycle in that entity's state container.
package actions

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/apiclient"
	"github.com/1997daniela/employeeVaccineInventory/pkg/entitystore"
)

// ErrMissingID is returned, before any request is sent, by operations that
// need an id when none is given.
var ErrMissingID = errors.New("actions: entity id is required")

// Entity is implemented by every model handled by an ActionSet.
type Entity interface {
	EntityID() (int64, bool)
}

// ActionSet issues one request per call. Each call dispatches exactly one
// start event and one success or failure event. Writes are followed by
// RefreshAfterWrite.
type ActionSet[T Entity] struct {
	name      string
	client    *apiclient.EntityClient[T]
	container *entitystore.Container[T]
	postWrite func(ctx context.Context) error
	logger    *zap.Logger
}

type Option[T Entity] func(*ActionSet[T])

// WithPostWrite replaces the refresh run after every successful write.
func WithPostWrite[T Entity](fn func(ctx context.Context, a *ActionSet[T]) error) Option[T] {
	return func(a *ActionSet[T]) {
		a.postWrite = func(ctx context.Context) error { return fn(ctx, a) }
	}
}

// WithoutRefresh disables the post-write refresh.
func WithoutRefresh[T Entity]() Option[T] {
	return func(a *ActionSet[T]) { a.postWrite = nil }
}

func WithLogger[T Entity](l *zap.Logger) Option[T] {
	return func(a *ActionSet[T]) { a.logger = l }
}

func New[T Entity](name string, client *apiclient.EntityClient[T], container *entitystore.Container[T], opts ...Option[T]) *ActionSet[T] {
	a := &ActionSet[T]{
		name:      name,
		client:    client,
		container: container,
		logger:    zap.NewNop(),
	}
	a.postWrite = a.refresh
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("entity", name))
	return a
}

func (a *ActionSet[T]) Name() string { return a.name }

func (a *ActionSet[T]) Container() *entitystore.Container[T] { return a.container }

// State is a snapshot of the entity's container.
func (a *ActionSet[T]) State() entitystore.State[T] { return a.container.Snapshot() }

// List fetches the collection. q may be nil.
func (a *ActionSet[T]) List(ctx context.Context, q *apiclient.QueryParams) ([]T, error) {
	return a.list(ctx, q, false)
}

func (a *ActionSet[T]) list(ctx context.Context, q *apiclient.QueryParams, afterWrite bool) ([]T, error) {
	seq := a.container.Begin(entitystore.OpList, afterWrite)
	items, err := a.client.List(ctx, q)
	if err != nil {
		a.fail(entitystore.OpList, seq, err)
		return nil, err
	}
	a.container.Dispatch(entitystore.ListLoaded(seq, items))
	return items, nil
}

func (a *ActionSet[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if id == 0 {
		return zero, ErrMissingID
	}
	seq := a.container.Begin(entitystore.OpGet, false)
	item, err := a.client.Get(ctx, id)
	if err != nil {
		a.fail(entitystore.OpGet, seq, err)
		return zero, err
	}
	a.container.Dispatch(entitystore.EntityLoaded(entitystore.OpGet, seq, item))
	return item, nil
}

func (a *ActionSet[T]) Create(ctx context.Context, v T) (T, error) {
	seq := a.container.Begin(entitystore.OpCreate, false)
	created, err := a.client.Create(ctx, v)
	return a.settleWrite(ctx, entitystore.OpCreate, seq, created, err)
}

// Update replaces the entity identified by v's id.
func (a *ActionSet[T]) Update(ctx context.Context, v T) (T, error) {
	id, ok := v.EntityID()
	if !ok {
		var zero T
		return zero, ErrMissingID
	}
	seq := a.container.Begin(entitystore.OpUpdate, false)
	updated, err := a.client.Update(ctx, id, v)
	return a.settleWrite(ctx, entitystore.OpUpdate, seq, updated, err)
}

// PartialUpdate sends only the fields set on v; v must carry its id.
func (a *ActionSet[T]) PartialUpdate(ctx context.Context, v T) (T, error) {
	id, ok := v.EntityID()
	if !ok {
		var zero T
		return zero, ErrMissingID
	}
	seq := a.container.Begin(entitystore.OpPartialUpdate, false)
	updated, err := a.client.PartialUpdate(ctx, id, v)
	return a.settleWrite(ctx, entitystore.OpPartialUpdate, seq, updated, err)
}

// Delete returns the prior representation when the server sends one.
func (a *ActionSet[T]) Delete(ctx context.Context, id int64) (T, error) {
	var zero T
	if id == 0 {
		return zero, ErrMissingID
	}
	seq := a.container.Begin(entitystore.OpDelete, false)
	prior, err := a.client.Delete(ctx, id)
	if err != nil {
		a.fail(entitystore.OpDelete, seq, err)
		return zero, err
	}
	a.container.Dispatch(entitystore.Deleted[T](seq))
	a.RefreshAfterWrite(ctx)
	return prior, nil
}

// Reset discards the current entity, flags and in-flight requests.
func (a *ActionSet[T]) Reset() {
	a.container.Dispatch(entitystore.Reset[T]())
}

// RefreshAfterWrite runs the post-write step. Its failure is recorded in
// the container and logged; the write itself already succeeded.
func (a *ActionSet[T]) RefreshAfterWrite(ctx context.Context) error {
	if a.postWrite == nil {
		return nil
	}
	if err := a.postWrite(ctx); err != nil {
		a.logger.Warn("refresh after write failed", zap.Error(err))
		return err
	}
	return nil
}

func (a *ActionSet[T]) refresh(ctx context.Context) error {
	_, err := a.list(ctx, nil, true)
	return err
}

func (a *ActionSet[T]) settleWrite(ctx context.Context, op entitystore.Op, seq uint64, v T, err error) (T, error) {
	if err != nil {
		a.fail(op, seq, err)
		var zero T
		return zero, err
	}
	a.container.Dispatch(entitystore.EntityLoaded(op, seq, v))
	a.RefreshAfterWrite(ctx)
	return v, nil
}

func (a *ActionSet[T]) fail(op entitystore.Op, seq uint64, err error) {
	a.logger.Debug("request failed",
		zap.Stringer("op", op),
		zap.Int("status", apiclient.StatusOf(err)),
		zap.Error(err))
	a.container.Dispatch(entitystore.Failed[T](op, seq, err))
}
