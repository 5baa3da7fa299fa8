package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"planner-api/models"
)

// NotFoundError reports that no record in a collection has the given id.
type NotFoundError struct {
	Collection models.Collection
	ID         int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Collection.Singular)
}

// Records runs the read-modify-write cycle for each collection operation.
// Each call loads the document, changes it and, if it changed, saves it.
type Records struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

// Option configures Records.
type Option func(*Records)

// WithClock overrides the time source used for id assignment.
func WithClock(now func() time.Time) Option {
	return func(r *Records) {
		r.now = now
	}
}

// WithLogger sets the logger used for store write events.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Records) {
		r.log = log
	}
}

// NewRecords returns a Records service over store.
func NewRecords(store Store, opts ...Option) *Records {
	r := &Records{
		store: store,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every record in c, in insertion order.
func (r *Records) List(c models.Collection) ([]models.Record, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.Name, err)
	}
	return doc.Records(c), nil
}

// Create appends a new record built from fields and returns it.
func (r *Records) Create(c models.Collection, fields map[string]json.RawMessage) (models.Record, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.Record{}, fmt.Errorf("load %s: %w", c.Name, err)
	}

	records := doc.Records(c)
	record := models.NewRecord(NextID(records, r.now()), fields)
	doc.SetRecords(c, append(records, record))

	if err := r.store.Save(doc); err != nil {
		return models.Record{}, fmt.Errorf("save %s: %w", c.Name, err)
	}
	r.log.Debug().Str("collection", c.Name).Int64("id", record.ID).Msg("record created")
	return record, nil
}

// Update merges patch over the first record with the given id.
func (r *Records) Update(c models.Collection, id int64, patch map[string]json.RawMessage) (models.Record, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.Record{}, fmt.Errorf("load %s: %w", c.Name, err)
	}

	records := doc.Records(c)
	index := FindIndex(records, id)
	if index < 0 {
		return models.Record{}, &NotFoundError{Collection: c, ID: id}
	}

	records[index] = models.Merge(records[index], patch)
	doc.SetRecords(c, records)

	if err := r.store.Save(doc); err != nil {
		return models.Record{}, fmt.Errorf("save %s: %w", c.Name, err)
	}
	r.log.Debug().Str("collection", c.Name).Int64("id", id).Msg("record updated")
	return records[index], nil
}

// Delete removes the first record with the given id and returns it.
func (r *Records) Delete(c models.Collection, id int64) (models.Record, error) {
	doc, err := r.store.Load()
	if err != nil {
		return models.Record{}, fmt.Errorf("load %s: %w", c.Name, err)
	}

	records := doc.Records(c)
	index := FindIndex(records, id)
	if index < 0 {
		return models.Record{}, &NotFoundError{Collection: c, ID: id}
	}

	removed := records[index]
	doc.SetRecords(c, append(records[:index], records[index+1:]...))

	if err := r.store.Save(doc); err != nil {
		return models.Record{}, fmt.Errorf("save %s: %w", c.Name, err)
	}
	r.log.Debug().Str("collection", c.Name).Int64("id", id).Msg("record deleted")
	return removed, nil
}

// FindIndex returns the index of the first record with id, or -1.
func FindIndex(records []models.Record, id int64) int {
	for i, record := range records {
		if record.ID == id {
			return i
		}
	}
	return -1
}

// NextID returns the millisecond timestamp of now, bumped past the largest
// id already in records so that ids stay unique within a collection.
func NextID(records []models.Record, now time.Time) int64 {
	id := now.UnixMilli()
	for _, record := range records {
		if record.ID >= id {
			id = record.ID + 1
		}
	}
	return id
}
