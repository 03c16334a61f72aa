package save

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func TestIndexPutGet(t *testing.T) {
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "sub", "index.db"))
	if err != nil {
		t.Fatalf("OpenIndex() error = %v", err)
	}
	defer ix.Close()
	ctx := context.Background()

	want := Meta{
		Slot:     1,
		SaveID:   "abc",
		Day:      2,
		Turn:     17,
		X:        4,
		Y:        9,
		SavedAt:  time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC),
		Checksum: math.MaxUint64,
	}
	if err := ix.Put(ctx, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := ix.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.SaveID != want.SaveID || got.Turn != want.Turn || got.Checksum != want.Checksum || !got.SavedAt.Equal(want.SavedAt) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	if _, ok, err := ix.Get(ctx, 2); ok || err != nil {
		t.Errorf("Get(2) = %v, %v; want empty", ok, err)
	}
}
