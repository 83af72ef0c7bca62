package docstore

// Package docstore contains an in-memory DocumentStore double mirroring the
// PostgreSQL adapter's ordering behavior.

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pbflix/neteflix-api/internal/ports"
)

var _ ports.DocumentStore = (*MemoryDocumentStore)(nil)

// MemoryDocumentStore keeps documents in memory. Error fields let tests
// inject failures per operation.
type MemoryDocumentStore struct {
	AddErr    error
	QueryErr  error
	DeleteErr error

	mu   sync.Mutex
	seq  int
	now  time.Time
	docs map[string]storedDoc
}

type storedDoc struct {
	path      string
	fields    map[string]any
	createdAt time.Time
}

// NewMemoryDocumentStore creates an empty store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		now:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		docs: make(map[string]storedDoc),
	}
}

// Add stores a document and returns a generated ref.
func (m *MemoryDocumentStore) Add(ctx context.Context, path string, fields map[string]any) (string, error) {
	if m.AddErr != nil {
		return "", m.AddErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	ref := fmt.Sprintf("doc-%d", m.seq)
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	m.docs[ref] = storedDoc{
		path:      path,
		fields:    copied,
		createdAt: m.now.Add(time.Duration(m.seq) * time.Second),
	}
	return ref, nil
}

// QueryOrdered returns the documents under path ordered by the given field.
// Ordering by "createdAt" uses insertion time; other fields compare their
// values as strings, matching text ordering in the real adapter.
func (m *MemoryDocumentStore) QueryOrdered(ctx context.Context, path, field string, dir ports.Direction) ([]ports.Document, error) {
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.Document, 0)
	for ref, doc := range m.docs {
		if doc.path != path {
			continue
		}
		fields := make(map[string]any, len(doc.fields))
		for k, v := range doc.fields {
			fields[k] = v
		}
		out = append(out, ports.Document{Ref: ref, Fields: fields, CreatedAt: doc.createdAt})
	}

	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		if field == "createdAt" {
			less = out[i].CreatedAt.Before(out[j].CreatedAt)
		} else {
			less = fmt.Sprint(out[i].Fields[field]) < fmt.Sprint(out[j].Fields[field])
		}
		if dir == ports.Descending {
			return !less
		}
		return less
	})
	return out, nil
}

// Delete removes the document by ref. Unknown refs are a no-op.
func (m *MemoryDocumentStore) Delete(ctx context.Context, ref string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, ref)
	return nil
}

// Len reports the number of stored documents across all paths.
func (m *MemoryDocumentStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// CountAt reports the number of documents under a path.
func (m *MemoryDocumentStore) CountAt(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, doc := range m.docs {
		if doc.path == path {
			n++
		}
	}
	return n
}
