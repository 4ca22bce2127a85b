// Package credstore holds session-lifetime storage for the bearer token and the
// signed-in user record.
package credstore

import (
	"context"
	"errors"
)

// Key names one of the fixed logical slots of a session.
type Key string

const (
	TokenKey Key = "authToken"
	UserKey  Key = "currentUser"
)

// ErrUnavailable reports that the store cannot be reached for this session, for
// example a request with no interactive browser session behind it.
var ErrUnavailable = errors.New("credential store unavailable")

// LookupState is the outcome of a read.
type LookupState int

const (
	Absent LookupState = iota
	Present
	Unavailable
)

func (s LookupState) String() string {
	switch s {
	case Present:
		return "present"
	case Unavailable:
		return "unavailable"
	default:
		return "absent"
	}
}

// Lookup is the tri-state result of Store.Get. Err is set only when State is
// Unavailable.
type Lookup struct {
	State LookupState
	Value []byte
	Err   error
}

func found(v []byte) Lookup { return Lookup{State: Present, Value: v} }

func missing() Lookup { return Lookup{State: Absent} }

func unavailable(err error) Lookup {
	if err == nil {
		err = ErrUnavailable
	}
	return Lookup{State: Unavailable, Err: err}
}

// Entry is one key/value pair of a write.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the key-scoped storage of one browser session. Set writes all entries
// atomically: either every entry is stored or none is.
type Store interface {
	Get(ctx context.Context, key Key) Lookup
	Set(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, keys ...Key) error
}

// Backend hands out per-session stores.
type Backend interface {
	Session(id string) Store
	Ping(ctx context.Context) error
}

// NoSession returns a Store bound to no session. Reads report Unavailable and
// writes fail with ErrUnavailable.
func NoSession() Store {
	return unavailableStore{}
}

type unavailableStore struct{}

func (unavailableStore) Get(context.Context, Key) Lookup { return unavailable(nil) }

func (unavailableStore) Set(context.Context, ...Entry) error { return ErrUnavailable }

func (unavailableStore) Delete(context.Context, ...Key) error { return ErrUnavailable }
