package snowflake

import (
	"testing"
	"time"
)

func TestSetup(t *testing.T) {
	if err := Setup(0); err != nil {
		t.Error(err)
	}
	if err := Setup(1); err == nil {
		t.Error("expected error on second Setup, got nil")
	}
}

func TestGenerateIsOrdered(t *testing.T) {
	prev, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	for range 1000 {
		id, err := Generate()
		if err != nil {
			// increment overflow within one millisecond, nothing to compare
			return
		}
		if id <= prev {
			t.Fatalf("IDs not strictly increasing: %d then %d", prev, id)
		}
		prev = id
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	ts := Timestamp(id)
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("extracted timestamp %v out of range", ts)
	}
}
