package invalidation

import (
	"testing"
	"time"
)

func validEvent() Event {
	return Event{
		Version: 1,
		Op:      "update",
		AssetID: "some/image",
		TS:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:  "catalog-sync",
	}
}

func TestValidate_OK(t *testing.T) {
	ev := validEvent()
	if err := ev.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	ev.Op = "delete"
	ev.Source = ""
	if err := ev.Validate(); err != nil {
		t.Fatalf("Validate delete without source: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Event)
	}{
		{"version zero", func(e *Event) { e.Version = 0 }},
		{"version future", func(e *Event) { e.Version = 2 }},
		{"unknown op", func(e *Event) { e.Op = "refresh" }},
		{"empty op", func(e *Event) { e.Op = "" }},
		{"blank asset", func(e *Event) { e.AssetID = "   " }},
		{"zero ts", func(e *Event) { e.TS = time.Time{} }},
	}
	for _, c := range cases {
		ev := validEvent()
		c.mutate(&ev)
		if err := ev.Validate(); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}
