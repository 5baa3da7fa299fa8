package models

import "encoding/json"

// Collection names one of the record lists held by a Document.
type Collection struct {
	Name     string
	Singular string
}

var (
	Tasks  = Collection{Name: "tasks", Singular: "Task"}
	Events = Collection{Name: "events", Singular: "Event"}
)

// Collections lists every collection in route registration order.
var Collections = []Collection{Tasks, Events}

// LookupCollection finds a collection by its name.
func LookupCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// Document is the whole persisted state.
type Document struct {
	Tasks  []Record `json:"tasks"`
	Events []Record `json:"events"`
}

// NewDocument returns a document with both collections empty.
func NewDocument() *Document {
	return &Document{Tasks: []Record{}, Events: []Record{}}
}

// Records returns the records of c. The result is never nil.
func (d *Document) Records(c Collection) []Record {
	var records []Record
	switch c.Name {
	case Tasks.Name:
		records = d.Tasks
	case Events.Name:
		records = d.Events
	}
	if records == nil {
		return []Record{}
	}
	return records
}

// SetRecords replaces the records of c.
func (d *Document) SetRecords(c Collection, records []Record) {
	if records == nil {
		records = []Record{}
	}
	switch c.Name {
	case Tasks.Name:
		d.Tasks = records
	case Events.Name:
		d.Events = records
	}
}

// UnmarshalJSON accepts missing or null collections as empty ones.
func (d *Document) UnmarshalJSON(data []byte) error {
	type document Document
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*d = Document(doc)
	d.normalize()
	return nil
}

// MarshalJSON always writes both collections as arrays.
func (d Document) MarshalJSON() ([]byte, error) {
	type document Document
	d.normalize()
	return json.Marshal(document(d))
}

func (d *Document) normalize() {
	if d.Tasks == nil {
		d.Tasks = []Record{}
	}
	if d.Events == nil {
		d.Events = []Record{}
	}
}
