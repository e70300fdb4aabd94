// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func appendHook(tag string) HookFunc {
	return func(_ context.Context, data any) (any, error) {
		return append(data.([]string), tag), nil
	}
}

func TestHookRegistryRegister(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	registry.RegisterFunc("test.hook", "handler", "mod", appendHook("a"))

	if !registry.HasHandlers("test.hook") {
		t.Error("HasHandlers() = false, want true")
	}
	if count := registry.HandlerCount("test.hook"); count != 1 {
		t.Errorf("HandlerCount() = %d, want 1", count)
	}
	if registry.HasHandlers("other.hook") {
		t.Error("HasHandlers(other.hook) = true")
	}
}

func TestHookRegistryCallPriorityOrder(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	registry.Register("h", HookHandler{Name: "late", Module: "m", Priority: 10, Fn: appendHook("late")})
	registry.Register("h", HookHandler{Name: "first", Module: "m", Priority: -1, Fn: appendHook("first")})
	registry.Register("h", HookHandler{Name: "mid1", Module: "m", Fn: appendHook("mid1")})
	registry.Register("h", HookHandler{Name: "mid2", Module: "m", Fn: appendHook("mid2")})

	result, err := registry.Call(context.Background(), "h", []string{})
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	want := []string{"first", "mid1", "mid2", "late"}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Call() = %v, want %v", result, want)
	}
}

func TestHookRegistryCallNoHandlersPassesThrough(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	result, err := registry.Call(context.Background(), "missing", "data")
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if result != "data" {
		t.Errorf("Call() = %v, want data", result)
	}
}

func TestHookRegistryCallErrorStops(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())
	boom := errors.New("boom")

	called := false
	registry.Register("h", HookHandler{Name: "fails", Module: "m", Fn: func(context.Context, any) (any, error) {
		return nil, boom
	}})
	registry.Register("h", HookHandler{Name: "after", Module: "m", Priority: 1, Fn: func(_ context.Context, d any) (any, error) {
		called = true
		return d, nil
	}})

	_, err := registry.Call(context.Background(), "h", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Call() error = %v, want wrapped boom", err)
	}
	if called {
		t.Error("handler after the failing one was called")
	}
}

func TestHookRegistrySkipsInactiveModules(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())
	registry.RegisterFunc("h", "on", "active", appendHook("active"))
	registry.RegisterFunc("h", "off", "inactive", appendHook("inactive"))
	registry.SetIsModuleActive(func(name string) bool { return name == "active" })

	result, _ := registry.Call(context.Background(), "h", []string{})
	if !reflect.DeepEqual(result, []string{"active"}) {
		t.Errorf("Call() = %v, want [active]", result)
	}
}

func TestDispatch(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())
	registry.RegisterFunc("h", "double", "m", func(_ context.Context, d any) (any, error) {
		return d.(int) * 2, nil
	})

	got, err := Dispatch(context.Background(), registry, "h", 21)
	if err != nil || got != 42 {
		t.Errorf("Dispatch() = %v, %v; want 42, nil", got, err)
	}

	registry.RegisterFunc("bad", "wrong type", "m", func(context.Context, any) (any, error) {
		return "not an int", nil
	})
	if _, err := Dispatch(context.Background(), registry, "bad", 1); err == nil {
		t.Error("Dispatch() with wrong result type should fail")
	}

	if got, err := Dispatch[int](context.Background(), nil, "h", 5); err != nil || got != 5 {
		t.Errorf("Dispatch(nil registry) = %v, %v", got, err)
	}
}

func TestHookRegistryUnregisterAll(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())
	registry.RegisterFunc("a", "h1", "mod1", appendHook("x"))
	registry.RegisterFunc("a", "h2", "mod2", appendHook("y"))
	registry.RegisterFunc("b", "h3", "mod1", appendHook("z"))

	registry.UnregisterAll("mod1")

	if registry.HandlerCount("a") != 1 {
		t.Errorf("HandlerCount(a) = %d, want 1", registry.HandlerCount("a"))
	}
	if !reflect.DeepEqual(registry.ListHooks(), []string{"a"}) {
		t.Errorf("ListHooks() = %v, want [a]", registry.ListHooks())
	}
}
