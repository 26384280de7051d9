package syncer

import "time"

// State is the externally visible phase of the sync engine.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Kind classifies an error status. It is empty for non-error states.
type Kind string

const (
	KindNone          Kind = ""
	KindQuotaExceeded Kind = "quota_exceeded"
	KindFailure       Kind = "failure"
)

// Status is the snapshot observers receive on every transition. Message is a
// human-readable reason, set only for error states. Per-record failures never
// surface here; they are developer-log-only.
type Status struct {
	State    State
	Kind     Kind
	Message  string
	LastSync time.Time
}

// setStatus transitions the machine and notifies observers outside the lock.
func (e *Engine) setStatus(state State, kind Kind, message string) {
	e.mu.Lock()
	e.status = Status{State: state, Kind: kind, Message: message, LastSync: e.lastSync}
	snapshot := e.status
	observers := make([]func(Status), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}
	e.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// Status returns the current status snapshot.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastSync returns the completion time of the last successful cycle, zero if
// none succeeded yet in this process.
func (e *Engine) LastSync() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSync
}

// Subscribe registers an observer for status transitions and returns its
// disposer. Observers are invoked synchronously on the transitioning
// goroutine and must not block.
func (e *Engine) Subscribe(fn func(Status)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.observers, id)
	}
}
