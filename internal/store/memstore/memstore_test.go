package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/geoharbor/ingest/internal/store"
)

func TestStore_SetAndRead(t *testing.T) {
	s := New()
	data := []byte("compressed")
	s.SetObject("a.gz", data)
	data[0] = 'X'

	got, err := s.ReadObject(context.Background(), "a.gz")
	if err != nil {
		t.Fatalf("ReadObject() error = %v", err)
	}
	if string(got) != "compressed" {
		t.Errorf("ReadObject() = %q, want a copy unaffected by caller mutation", got)
	}

	if _, err := s.ReadObject(context.Background(), "b.gz"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadObject(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	s := New()
	s.SetObject("x/2", nil)
	s.SetObject("x/1", nil)
	s.SetObject("y/1", nil)

	keys, err := s.List(context.Background(), "x/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "x/1" || keys[1] != "x/2" {
		t.Errorf("List() = %v, want [x/1 x/2]", keys)
	}
}
