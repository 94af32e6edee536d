package test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// MemoryStore is an in-memory repository.RecordStore. Rows round-trip
// through JSON the same way they would through a PostgREST endpoint.
type MemoryStore struct {
	// InsertFn may reject an insert before it is applied.
	InsertFn func(table string, record map[string]any) error
	// FetchFn may reject a read before it is applied.
	FetchFn func(table string) error
	// UpdateFn may reject an update before it is applied.
	UpdateFn func(table, id string) error
	// DeleteFn may reject a delete before it is applied.
	DeleteFn func(table string) error

	mu     sync.Mutex
	tables map[string][]map[string]any
	calls  []string
}

var _ repository.RecordStore = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]map[string]any)}
}

// Seed stores records as-is, assigning ids and timestamps when absent.
// It returns the stored ids in order.
func (s *MemoryStore) Seed(table string, records ...any) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		row, err := toRow(record)
		if err != nil {
			panic(fmt.Sprintf("seed %s: %v", table, err))
		}
		s.mu.Lock()
		ids = append(ids, s.insertLocked(table, row)["id"].(string))
		s.mu.Unlock()
	}
	return ids
}

// Rows returns a copy of the rows stored in table.
func (s *MemoryStore) Rows(table string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		out = append(out, cloneRow(row))
	}
	return out
}

// Calls returns the operations performed so far, as "METHOD table".
func (s *MemoryStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CountCalls returns how many operations matched "METHOD table".
func (s *MemoryStore) CountCalls(call string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (s *MemoryStore) FetchAll(ctx context.Context, table string, dest any) error {
	return s.fetch(ctx, table, dest, nil)
}

func (s *MemoryStore) FetchByID(ctx context.Context, table, id string, dest any) error {
	return s.fetch(ctx, table, dest, []repository.Filter{repository.ByID(id)})
}

func (s *MemoryStore) FetchFiltered(ctx context.Context, table string, dest any, filters ...repository.Filter) error {
	return s.fetch(ctx, table, dest, filters)
}

func (s *MemoryStore) Insert(ctx context.Context, table string, record any, dest any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	row, err := toRow(record)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	s.record("POST " + table)
	if s.InsertFn != nil {
		if err := s.InsertFn(table, row); err != nil {
			return err
		}
	}
	s.mu.Lock()
	created := cloneRow(s.insertLocked(table, row))
	s.mu.Unlock()
	return decode([]map[string]any{created}, dest)
}

func (s *MemoryStore) Update(ctx context.Context, table, id string, patch any, dest any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	changes, err := toRow(patch)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	s.record("PATCH " + table)
	if s.UpdateFn != nil {
		if err := s.UpdateFn(table, id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	var updated []map[string]any
	for _, row := range s.tables[table] {
		if fmt.Sprint(row["id"]) != id {
			continue
		}
		for k, v := range changes {
			row[k] = v
		}
		updated = append(updated, cloneRow(row))
	}
	s.mu.Unlock()
	return decode(updated, dest)
}

func (s *MemoryStore) Delete(ctx context.Context, table string, filters ...repository.Filter) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	if len(filters) == 0 {
		return fmt.Errorf("%w: delete without filters", domainErrors.ErrPersistence)
	}
	s.record("DELETE " + table)
	if s.DeleteFn != nil {
		if err := s.DeleteFn(table); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tables[table][:0]
	for _, row := range s.tables[table] {
		if !matches(row, filters) {
			kept = append(kept, row)
		}
	}
	s.tables[table] = kept
	return nil
}

func (s *MemoryStore) fetch(ctx context.Context, table string, dest any, filters []repository.Filter) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	s.record("GET " + table)
	if s.FetchFn != nil {
		if err := s.FetchFn(table); err != nil {
			return err
		}
	}
	s.mu.Lock()
	var found []map[string]any
	for _, row := range s.tables[table] {
		if matches(row, filters) {
			found = append(found, cloneRow(row))
		}
	}
	s.mu.Unlock()
	return decode(found, dest)
}

func (s *MemoryStore) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *MemoryStore) insertLocked(table string, row map[string]any) map[string]any {
	if s.tables == nil {
		s.tables = make(map[string][]map[string]any)
	}
	if id, ok := row["id"]; !ok || id == nil || id == "" || id == uuid.Nil.String() {
		row["id"] = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if v, ok := row["created_at"]; !ok || v == nil {
		row["created_at"] = now
	}
	s.tables[table] = append(s.tables[table], row)
	return row
}

func matches(row map[string]any, filters []repository.Filter) bool {
	for _, f := range filters {
		value, present := row[f.Column]
		switch f.Operator {
		case repository.OpIs:
			if present && value != nil {
				return false
			}
		case repository.OpEq:
			if !present || value == nil || fmt.Sprint(value) != firstValue(f) {
				return false
			}
		case repository.OpILike:
			if !present || value == nil || !strings.Contains(strings.ToLower(fmt.Sprint(value)), strings.ToLower(firstValue(f))) {
				return false
			}
		case repository.OpIn:
			if !present || value == nil || !contains(f.Values, fmt.Sprint(value)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func firstValue(f repository.Filter) string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func toRow(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	row := map[string]any{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func decode(rows []map[string]any, dest any) error {
	if dest == nil {
		return nil
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	return nil
}
