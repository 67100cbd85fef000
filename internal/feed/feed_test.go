package feed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFeed_Paging(t *testing.T) {
	f := New(Options{PageSize: 3, MaxPages: 2})
	ctx := context.Background()

	items, more, err := f.Refresh(ctx)
	if err != nil || !more || len(items) != 3 {
		t.Fatalf("Refresh() = %d items, more %v, err %v", len(items), more, err)
	}
	if items[0].ID != 1 || items[0].Generation != 1 {
		t.Fatalf("first item = %+v", items[0])
	}

	items, more, err = f.Next(ctx)
	if err != nil || more || len(items) != 3 || items[0].ID != 4 {
		t.Fatalf("Next() = %+v, more %v, err %v", items, more, err)
	}

	items, more, err = f.Next(ctx)
	if err != nil || more || len(items) != 0 {
		t.Fatalf("Next() past the end = %d items, more %v, err %v", len(items), more, err)
	}

	items, more, _ = f.Refresh(ctx)
	if !more || items[0].ID != 1 || f.Generation() != 2 {
		t.Fatalf("Refresh() did not start over: %+v generation %d", items[0], f.Generation())
	}
}

func TestFeed_Endless(t *testing.T) {
	f := New(Options{PageSize: 1})
	for i := 0; i < 10; i++ {
		if _, more, err := f.Next(context.Background()); err != nil || !more {
			t.Fatalf("page %d: more %v err %v", i, more, err)
		}
	}
}

func TestFeed_FailEvery(t *testing.T) {
	type tc struct {
		failEvery int
		want      []bool
	}

	tests := map[string]tc{
		"never":       {failEvery: 0, want: []bool{false, false, false, false}},
		"every other": {failEvery: 2, want: []bool{false, true, false, true}},
		"always":      {failEvery: 1, want: []bool{true, true, true, true}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := New(Options{PageSize: 2, FailEvery: tt.failEvery})
			for i, wantErr := range tt.want {
				_, _, err := f.Next(context.Background())
				if got := errors.Is(err, ErrUnavailable); got != wantErr {
					t.Fatalf("fetch %d: err = %v, want failure %v", i, err, wantErr)
				}
			}
		})
	}
}

func TestFeed_Cancel(t *testing.T) {
	f := New(Options{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, _, err := f.Refresh(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Refresh() error = %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled fetch waited for the latency")
	}
	if f.Generation() != 0 {
		t.Fatal("cancelled refresh changed the feed")
	}
}

func TestFeed_Latency(t *testing.T) {
	f := New(Options{Latency: 20 * time.Millisecond})
	start := time.Now()
	if _, _, err := f.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("fetch returned after %v", elapsed)
	}
}
