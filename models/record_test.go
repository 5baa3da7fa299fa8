package models_test

import (
	"encoding/json"
	"testing"

	"planner-api/models"
)

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestRecordMarshalWritesIDFirst(t *testing.T) {
	r := models.NewRecord(5, map[string]json.RawMessage{
		"title": raw(`"buy milk"`),
		"done":  raw(`false`),
	})

	got, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":5,"done":false,"title":"buy milk"}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRecordMarshalEmpty(t *testing.T) {
	got, err := json.Marshal(models.Record{ID: 7})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `{"id":7}` {
		t.Errorf("got %s", got)
	}
}

func TestNewRecordDropsIDField(t *testing.T) {
	r := models.NewRecord(1, map[string]json.RawMessage{
		"id":    raw(`99`),
		"title": raw(`"x"`),
	})
	if r.ID != 1 {
		t.Errorf("ID = %d, want 1", r.ID)
	}
	if _, ok := r.Fields["id"]; ok {
		t.Error("Fields still contains id")
	}
}

func TestMerge(t *testing.T) {
	base := models.NewRecord(10, map[string]json.RawMessage{
		"title": raw(`"old"`),
		"done":  raw(`false`),
	})

	tests := []struct {
		name  string
		patch map[string]json.RawMessage
		want  string
	}{
		{
			name:  "empty patch keeps everything",
			patch: map[string]json.RawMessage{},
			want:  `{"id":10,"done":false,"title":"old"}`,
		},
		{
			name:  "present field wins",
			patch: map[string]json.RawMessage{"done": raw(`true`)},
			want:  `{"id":10,"done":true,"title":"old"}`,
		},
		{
			name:  "new field is added",
			patch: map[string]json.RawMessage{"tags": raw(`["a","b"]`)},
			want:  `{"id":10,"done":false,"tags":["a","b"],"title":"old"}`,
		},
		{
			name:  "id is ignored",
			patch: map[string]json.RawMessage{"id": raw(`1`), "title": raw(`"new"`)},
			want:  `{"id":10,"done":false,"title":"new"}`,
		},
		{
			name:  "nested objects are replaced, not merged",
			patch: map[string]json.RawMessage{"title": raw(`{"text":"t"}`)},
			want:  `{"id":10,"done":false,"title":{"text":"t"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(models.Merge(base, tt.patch))
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if string(base.Fields["title"]) != `"old"` {
		t.Errorf("Merge modified its input: title = %s", base.Fields["title"])
	}
}

func TestRecordUnmarshal(t *testing.T) {
	var r models.Record
	if err := json.Unmarshal([]byte(`{"title":"a","id":1700000000000}`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.ID != 1700000000000 {
		t.Errorf("ID = %d", r.ID)
	}
	if string(r.Fields["title"]) != `"a"` {
		t.Errorf("title = %s", r.Fields["title"])
	}
	if _, ok := r.Fields["id"]; ok {
		t.Error("Fields contains id")
	}
}

func TestRecordUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing id", `{"title":"a"}`},
		{"string id", `{"id":"12"}`},
		{"fractional id", `{"id":1.5}`},
		{"null", `null`},
		{"array", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r models.Record
			if err := json.Unmarshal([]byte(tt.input), &r); err == nil {
				t.Errorf("expected error for %s", tt.input)
			}
		})
	}
}
