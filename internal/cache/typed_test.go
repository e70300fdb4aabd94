// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testBundle struct {
	Locale  string            `json:"locale"`
	Strings map[string]string `json:"strings"`
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mem := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[testBundle](mem, "bundle:", time.Hour)
	ctx := context.Background()

	calls := 0
	compute := func() (*testBundle, error) {
		calls++
		return &testBundle{Locale: "en", Strings: map[string]string{"hi": "Hello"}}, nil
	}

	for range 3 {
		got, err := tc.GetOrSet(ctx, "en", compute)
		if err != nil {
			t.Fatalf("GetOrSet: %v", err)
		}
		if got.Strings["hi"] != "Hello" {
			t.Errorf("got %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	if _, err := mem.Get(ctx, "bundle:en"); err != nil {
		t.Errorf("typed cache did not namespace key: %v", err)
	}
}

func TestTypedCache_GetOrSetError(t *testing.T) {
	mem := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[testBundle](mem, "bundle:", time.Hour)
	ctx := context.Background()

	boom := errors.New("boom")
	if _, err := tc.GetOrSet(ctx, "en", func() (*testBundle, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrSet error = %v, want boom", err)
	}
	if _, ok := tc.Get(ctx, "en"); ok {
		t.Error("failed computation was cached")
	}
}

func TestTypedCache_Purge(t *testing.T) {
	mem := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[testBundle](mem, "bundle:", time.Hour)
	ctx := context.Background()

	_ = tc.Set(ctx, "en", &testBundle{Locale: "en"})
	_ = tc.Set(ctx, "fr", &testBundle{Locale: "fr"})
	_ = mem.Set(ctx, "unrelated", []byte("x"), 0)

	if err := tc.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, ok := tc.Get(ctx, "en"); ok {
		t.Error("en survived Purge")
	}
	if _, err := mem.Get(ctx, "unrelated"); err != nil {
		t.Errorf("Purge removed unrelated key: %v", err)
	}
}

func TestTypedCache_DecodeFailureIsMiss(t *testing.T) {
	mem := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	tc := NewTypedCache[testBundle](mem, "bundle:", time.Hour)
	ctx := context.Background()

	_ = mem.Set(ctx, "bundle:en", []byte("not json"), 0)
	if _, ok := tc.Get(ctx, "en"); ok {
		t.Error("garbage entry decoded")
	}
}
