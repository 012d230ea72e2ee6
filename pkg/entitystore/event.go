package entitystore

// Op is the request an event belongs to.
type Op int

const (
	OpList Op = iota
	OpGet
	OpCreate
	OpUpdate
	OpPartialUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpList:
		return "list"
	case OpGet:
		return "get"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpPartialUpdate:
		return "partial-update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// IsWrite reports whether the op changes server state.
func (o Op) IsWrite() bool {
	return o == OpCreate || o == OpUpdate || o == OpPartialUpdate || o == OpDelete
}

type EventKind int

const (
	EventStart EventKind = iota
	EventSuccess
	EventFailure
	EventReset
)

// Event is one step of a request lifecycle.
type Event[T any] struct {
	Kind EventKind
	Op   Op
	Seq  uint64
	// AfterWrite marks the read that refreshes state after a write; it
	// leaves UpdateSuccess untouched.
	AfterWrite bool
	Entities   []T
	Entity     T
	Err        error
}

func Started[T any](op Op, seq uint64, afterWrite bool) Event[T] {
	return Event[T]{Kind: EventStart, Op: op, Seq: seq, AfterWrite: afterWrite}
}

func ListLoaded[T any](seq uint64, entities []T) Event[T] {
	return Event[T]{Kind: EventSuccess, Op: OpList, Seq: seq, Entities: entities}
}

// EntityLoaded settles a get, create, update or partial update.
func EntityLoaded[T any](op Op, seq uint64, entity T) Event[T] {
	return Event[T]{Kind: EventSuccess, Op: op, Seq: seq, Entity: entity}
}

func Deleted[T any](seq uint64) Event[T] {
	return Event[T]{Kind: EventSuccess, Op: OpDelete, Seq: seq}
}

func Failed[T any](op Op, seq uint64, err error) Event[T] {
	return Event[T]{Kind: EventFailure, Op: op, Seq: seq, Err: err}
}

func Reset[T any]() Event[T] {
	return Event[T]{Kind: EventReset}
}
