package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jainrajat254/projecthub-backend/pkg/repository"
	"github.com/qri-io/jsonschema"
)

// Loader loads and caches compiled JSON schemas from the repository. Incoming
// documents are validated against these schemas before any write, so a
// malformed document surfaces as a typed error instead of silently defaulting
// missing fields.
type Loader struct {
	repo  repository.SchemaRepo
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewLoader(ctx context.Context, r repository.SchemaRepo) (*Loader, error) {
	l := &Loader{
		repo:  r,
		cache: make(map[string]*jsonschema.Schema),
	}
	// initial load
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}

	return l, nil
}

// GetSchema returns a compiled schema by name.
func (l *Loader) GetSchema(name string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()

	return s, ok
}

// Reload loads all schemas from the DB and compiles them.
func (l *Loader) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.repo.ListSchemas(ctx)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, r := range rows {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(r.SchemaJSON), rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", r.Name, err)
		}

		newCache[r.Name] = rs
	}

	l.cache = newCache
	return nil
}

// DecodeError reports a document that failed schema validation.
type DecodeError struct {
	Schema string
	Errors []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("document does not match schema %q: %v", e.Schema, e.Errors)
}

// Validate checks a document against the named schema. An unknown schema name
// is an error: documents are never written unvalidated.
func (l *Loader) Validate(ctx context.Context, name string, doc []byte) error {
	rs, ok := l.GetSchema(name)
	if !ok {
		return fmt.Errorf("no schema registered for %q", name)
	}

	keyErrs, err := rs.ValidateBytes(ctx, doc)
	if err != nil {
		return fmt.Errorf("validate against %s: %w", name, err)
	}
	if len(keyErrs) > 0 {
		de := &DecodeError{Schema: name}
		for _, ke := range keyErrs {
			de.Errors = append(de.Errors, ke.Error())
		}
		return de
	}

	return nil
}
