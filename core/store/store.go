package store

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/leofalp/tabex/core/extract"
	"github.com/leofalp/tabex/core/table"
)

// ErrNotFound is returned when a session or table does not exist.
var ErrNotFound = errors.New("not found")

// Ticket identifies one extraction request. Seq grows strictly with every
// call to [ResultStore.Begin].
type Ticket struct {
	Session   string
	Seq       uint64
	RequestID string
}

type entry struct {
	seq    uint64
	result extract.ExtractionResult
}

// ResultStore is a concurrency-safe, map-backed result store. It uses an
// RWMutex so reads do not block each other.
type ResultStore struct {
	seq atomic.Uint64

	mu      sync.RWMutex
	entries map[string]*entry
}

// New returns an empty ResultStore.
func New() *ResultStore {
	return &ResultStore{entries: map[string]*entry{}}
}

// Begin issues a ticket for a new request in session.
func (s *ResultStore) Begin(session string) Ticket {
	return Ticket{
		Session:   session,
		Seq:       s.seq.Add(1),
		RequestID: uuid.NewString(),
	}
}

// Apply stores result unless a request that started later has already
// stored its own. It reports whether result was stored.
func (s *ResultStore) Apply(ticket Ticket, result extract.ExtractionResult) bool {
	stored := cloneResult(result)

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[ticket.Session]; ok && current.seq > ticket.Seq {
		return false
	}
	s.entries[ticket.Session] = &entry{seq: ticket.Seq, result: stored}
	return true
}

// Latest returns a copy of the stored result of session.
func (s *ResultStore) Latest(session string) (extract.ExtractionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current, ok := s.entries[session]
	if !ok {
		return extract.ExtractionResult{}, false
	}
	return cloneResult(current.result), true
}

// UpdateTableData replaces the rows of a stored table. Rows are padded or
// cut to the table's header count. The updated table is returned.
func (s *ResultStore) UpdateTableData(session, tableID string, rows [][]string) (table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[session]
	if !ok {
		return table.Table{}, ErrNotFound
	}

	for i := range current.result.Tables {
		t := &current.result.Tables[i]
		if t.ID != tableID {
			continue
		}
		t.Data = table.Rectangularize(len(t.Headers), rows)
		return cloneTable(*t), nil
	}

	return table.Table{}, ErrNotFound
}

// Clear forgets the result of session.
func (s *ResultStore) Clear(session string) {
	s.mu.Lock()
	delete(s.entries, session)
	s.mu.Unlock()
}

func cloneResult(result extract.ExtractionResult) extract.ExtractionResult {
	tables := make([]table.Table, len(result.Tables))
	for i, t := range result.Tables {
		tables[i] = cloneTable(t)
	}
	result.Tables = tables
	return result
}

func cloneTable(t table.Table) table.Table {
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)
	t.Headers = headers
	t.Data = table.Rectangularize(len(headers), t.Data)
	return t
}
