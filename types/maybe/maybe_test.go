package maybe

import (
	"encoding/json"
	"testing"
)

func TestMaybe(t *testing.T) {
	if v := Some(74).ValueOrDefault(300); v != 74 {
		t.Errorf("got %d, wanted 74", v)
	}
	if v := None[int]().ValueOrDefault(300); v != 300 {
		t.Errorf("got %d, wanted 300", v)
	}
	if None[int]().Ptr() != nil {
		t.Error("got pointer for none")
	}
	if p := SqlNull(5, true).Ptr(); p == nil || *p != 5 {
		t.Errorf("got %v, wanted pointer to 5", p)
	}
}

func TestMaybeJSON(t *testing.T) {
	type row struct {
		Month Maybe[int] `json:"month"`
	}

	b, err := json.Marshal([]row{{Some(12)}, {None[int]()}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `[{"month":12},{"month":null}]` {
		t.Errorf("got %s", b)
	}

	var rows []row
	if err := json.Unmarshal(b, &rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0].Month.IsValid() || rows[0].Month.Value() != 12 || rows[1].Month.IsValid() {
		t.Errorf("got %+v", rows)
	}
}
