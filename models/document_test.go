package models_test

import (
	"encoding/json"
	"testing"

	"planner-api/models"
)

func TestDocumentMissingCollectionsAreEmpty(t *testing.T) {
	var doc models.Document
	if err := json.Unmarshal([]byte(`{"tasks":[{"id":1}],"events":null}`), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Events == nil {
		t.Error("Events is nil")
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].ID != 1 {
		t.Errorf("Tasks = %+v", doc.Tasks)
	}

	got, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"tasks":[{"id":1}],"events":[]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDocumentZeroValueMarshalsArrays(t *testing.T) {
	got, err := json.Marshal(models.Document{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `{"tasks":[],"events":[]}` {
		t.Errorf("got %s", got)
	}
}

func TestDocumentRecords(t *testing.T) {
	doc := models.NewDocument()
	doc.SetRecords(models.Events, []models.Record{{ID: 3}})

	if n := len(doc.Records(models.Tasks)); n != 0 {
		t.Errorf("tasks len = %d, want 0", n)
	}
	events := doc.Records(models.Events)
	if len(events) != 1 || events[0].ID != 3 {
		t.Errorf("events = %+v", events)
	}

	doc.SetRecords(models.Events, nil)
	if doc.Events == nil {
		t.Error("SetRecords(nil) left a nil slice")
	}
}

func TestLookupCollection(t *testing.T) {
	c, ok := models.LookupCollection("events")
	if !ok || c.Singular != "Event" {
		t.Errorf("LookupCollection(events) = %+v, %v", c, ok)
	}
	if _, ok := models.LookupCollection("notes"); ok {
		t.Error("LookupCollection(notes) succeeded")
	}
}
