// Package storage persists named dashboard documents.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for tests and the server's default
//   - file: One JSON file per dashboard, for CLI use
//   - redis: msgpack records in Redis for shared multi-instance setups
//   - mongo: One MongoDB document per dashboard
//
// Every backend stores the document's canonical JSON form, so a dashboard
// saved through one backend and exported through another is byte-for-byte
// the same file the editor writes.
//
// # Usage
//
//	store, err := storage.NewFileStore("") // ~/.config/jfreports/dashboards/
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.Put(ctx, "q3-sales", doc); err != nil {
//	    return err
//	}
//	doc, err := store.Get(ctx, "q3-sales")
//	if errors.IsNotFound(err) {
//	    // no such dashboard
//	}
package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

// Info describes a stored dashboard without its elements.
type Info struct {
	Name      string    `json:"name" bson:"_id" msgpack:"name"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt" msgpack:"updated_at"`
	Elements  int       `json:"elements" bson:"elementCount" msgpack:"elements"`
	Size      int       `json:"size" bson:"size" msgpack:"size"`
}

// Store is the interface for dashboard storage backends.
type Store interface {
	// Get returns the named dashboard, or a DOCUMENT_NOT_FOUND error.
	Get(ctx context.Context, name string) (dashboard.Document, error)

	// Put creates or replaces the named dashboard.
	Put(ctx context.Context, name string, doc dashboard.Document) error

	// Delete removes the named dashboard, or returns DOCUMENT_NOT_FOUND.
	Delete(ctx context.Context, name string) error

	// List returns every stored dashboard sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend connections.
	Close() error
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "dashboard %q not found", name)
}

// encode validates the name and returns the document's stored form.
func encode(name string, doc dashboard.Document) ([]byte, Info, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return nil, Info{}, err
	}
	body, err := dashboard.EncodeBytes(doc)
	if err != nil {
		return nil, Info{}, errors.Wrap(errors.ErrCodeInternal, err, "encode dashboard %q", name)
	}
	return body, Info{Name: name, UpdatedAt: time.Now().UTC(), Elements: len(doc.Elements), Size: len(body)}, nil
}

// decode parses a stored body. A body that no longer decodes is reported as
// a storage error rather than a user format error.
func decode(name string, body []byte) (dashboard.Document, error) {
	doc, err := dashboard.DecodeBytes(body)
	if err != nil {
		return dashboard.Document{}, errors.Wrap(errors.ErrCodeStorage, err, "stored dashboard %q is corrupt", name)
	}
	return doc, nil
}

// storageErr wraps a backend failure and reports it to the store hooks.
func storageErr(ctx context.Context, backend, op string, err error, format string, args ...any) error {
	observability.Store().OnError(ctx, backend, op, err)
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}

// =============================================================================
// Retry
// =============================================================================

// RetryableError marks a failure worth retrying, such as a refused
// connection while a backend starts.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return stderrors.As(err, &re)
}

// retryDelay is the first backoff step; tests shorten it.
var retryDelay = time.Second

// RetryWithBackoff retries fn up to 3 times with exponential backoff.
// Only errors wrapped with Retryable trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
