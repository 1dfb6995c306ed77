package transport

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
)

type hookEntry[T any] struct {
	id   uint64
	hook T
}

// hookList is an ordered, concurrency-safe list of observers.
type hookList[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	items  []hookEntry[T]
}

// add appends hook and returns a func that removes it. The returned func is idempotent.
func (l *hookList[T]) add(hook T) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.items = append(l.items, hookEntry[T]{id: id, hook: hook})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, item := range l.items {
				if item.id == id {
					l.items = append(l.items[:i:i], l.items[i+1:]...)
					return
				}
			}
		})
	}
}

// snapshot returns the hooks in registration order.
func (l *hookList[T]) snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	hooks := make([]T, len(l.items))
	for i, item := range l.items {
		hooks[i] = item.hook
	}
	return hooks
}

func (l *hookList[T]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

type hookRegistry struct {
	request  hookList[RequestHook]
	response hookList[ResponseHook]
	errors   hookList[ErrorHook]
}

// runRequest calls every request hook in order and stops at the first error.
func (r *hookRegistry) runRequest(req *http.Request) error {
	for _, hook := range r.request.snapshot() {
		if err := hook(req); err != nil {
			return err
		}
	}
	return nil
}

// notifyRequest calls every request hook with its own copy of req. Errors and
// panics are logged and never affect the call.
func (r *hookRegistry) notifyRequest(req *http.Request, logger *slog.Logger) {
	for _, hook := range r.request.snapshot() {
		func() {
			defer func() {
				if p := recover(); p != nil {
					logger.Warn("request hook panicked", slog.Any("panic", p))
				}
			}()
			if err := hook(detachedCopy(req)); err != nil {
				logger.Warn("request hook failed", slog.String("error", err.Error()))
			}
		}()
	}
}

// detachedCopy clones req with its own body so an observer cannot drain the
// body that is about to be sent.
func detachedCopy(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	clone.Body = http.NoBody
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
		}
	}
	return clone
}

// runResponse calls every response hook in order and stops at the first error.
func (r *hookRegistry) runResponse(resp *Response) error {
	for _, hook := range r.response.snapshot() {
		if err := hook(resp); err != nil {
			return err
		}
	}
	return nil
}

// runError calls every error hook. A panicking hook is recovered so the
// original failure still reaches the caller.
func (r *hookRegistry) runError(err *apierrors.Error, logger *slog.Logger) {
	for _, hook := range r.errors.snapshot() {
		func() {
			defer func() {
				if p := recover(); p != nil {
					logger.Warn("error hook panicked", slog.Any("panic", p))
				}
			}()
			hook(err)
		}()
	}
}
