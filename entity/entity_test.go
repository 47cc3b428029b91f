package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestModifiedAt(t *testing.T) {
	specs := []struct {
		descr  string
		fields map[string]interface{}
		expTS  int64
		expOK  bool
	}{
		{
			descr:  "int64 timestamp",
			fields: map[string]interface{}{FieldModified: int64(1234)},
			expTS:  1234,
			expOK:  true,
		},
		{
			descr:  "int timestamp",
			fields: map[string]interface{}{FieldModified: 1234},
			expTS:  1234,
			expOK:  true,
		},
		{
			descr:  "float64 timestamp from decoded JSON",
			fields: map[string]interface{}{FieldModified: float64(1234)},
			expTS:  1234,
			expOK:  true,
		},
		{
			descr:  "missing field",
			fields: map[string]interface{}{"name": "server1"},
			expOK:  false,
		},
		{
			descr:  "unsupported type",
			fields: map[string]interface{}{FieldModified: "1234"},
			expOK:  false,
		},
		{
			descr: "nil field map",
			expOK: false,
		},
	}

	for specIndex, spec := range specs {
		t.Logf("[spec %d] %s", specIndex, spec.descr)
		ent := Entity{Fields: spec.fields}
		ts, ok := ent.ModifiedAt()
		if ok != spec.expOK {
			t.Errorf("[spec %d] got ok=%v, want %v", specIndex, ok, spec.expOK)
			continue
		}
		if ok && ts != spec.expTS {
			t.Errorf("[spec %d] got timestamp %d, want %d", specIndex, ts, spec.expTS)
		}
	}
}

func TestVersionTimestampOrdering(t *testing.T) {
	v1 := NewVersion()
	v2 := NewVersion()
	if Timestamp(v2) < Timestamp(v1) {
		t.Errorf("later version has earlier timestamp")
	}
}

func TestIDString(t *testing.T) {
	id := ID{Type: "servers", UUID: uuid.MustParse("deadbeef-0000-1000-8000-000000000000")}
	if got, want := id.String(), "servers/deadbeef-0000-1000-8000-000000000000"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStateString(t *testing.T) {
	specs := []struct {
		state State
		exp   string
	}{
		{StateComplete, "complete"},
		{StateDeleted, "deleted"},
		{State(42), "unknown"},
	}
	for specIndex, spec := range specs {
		if got := spec.state.String(); got != spec.exp {
			t.Errorf("[spec %d] got %q, want %q", specIndex, got, spec.exp)
		}
	}
}
