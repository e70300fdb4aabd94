// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Extension points invoked by the host.
const (
	// HookTopicBeforeCreate runs inside the topic creation transaction after
	// the topic row and its tags are staged. An error rolls the creation back.
	HookTopicBeforeCreate = "topic.before_create"
	// HookTopicBeforeUpdate runs inside the tag update transaction of an existing topic.
	HookTopicBeforeUpdate = "topic.before_update"
	// HookTopicSerialize lets handlers add fields to a topic payload.
	HookTopicSerialize = "topic.serialize"
	// HookTopicListQuery lets handlers replace the query of a topic listing.
	HookTopicListQuery = "topic.list_query"
	// HookSiteSerialize lets handlers add fields to the site payload.
	HookSiteSerialize = "site.serialize"
	// HookUserSerialize lets handlers add fields to a user payload.
	HookUserSerialize = "user.serialize"
	// HookTagBeforeCreate runs before a tag is created through the tag API.
	// An error rejects the tag.
	HookTagBeforeCreate = "tag.before_create"
	// HookExtraLocalesBundle lets handlers serve an on-demand locale bundle.
	// Unclaimed bundles fall through to the host's default response.
	HookExtraLocalesBundle = "extra_locales.bundle"
)

// HookFunc is a function that can be registered as a hook handler.
// It receives the current data and returns the data passed to the next handler.
// If the hook returns an error, subsequent hooks are not called.
type HookFunc func(ctx context.Context, data any) (any, error)

// HookHandler wraps a HookFunc with metadata.
type HookHandler struct {
	Name     string   // Name of the handler for debugging
	Module   string   // Module that registered the handler
	Priority int      // Lower priority runs first (default: 0)
	Fn       HookFunc // The actual handler function
}

// IsModuleActiveFunc is a function that checks if a module is active.
type IsModuleActiveFunc func(moduleName string) bool

// HookRegistry manages hook registration and execution.
type HookRegistry struct {
	hooks          map[string][]HookHandler
	logger         *slog.Logger
	isModuleActive IsModuleActiveFunc
	mu             sync.RWMutex
}

// NewHookRegistry creates a new hook registry.
func NewHookRegistry(logger *slog.Logger) *HookRegistry {
	return &HookRegistry{
		hooks:          make(map[string][]HookHandler),
		logger:         logger,
		isModuleActive: func(string) bool { return true },
	}
}

// SetIsModuleActive sets the callback used to skip handlers of inactive modules.
func (h *HookRegistry) SetIsModuleActive(fn IsModuleActiveFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isModuleActive = fn
}

// Register adds a hook handler. Handlers of equal priority keep registration order.
func (h *HookRegistry) Register(hookName string, handler HookHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handlers := append(slices.Clone(h.hooks[hookName]), handler)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority < handlers[j].Priority
	})
	h.hooks[hookName] = handlers

	h.logger.Debug("hook registered",
		"hook", hookName,
		"handler", handler.Name,
		"module", handler.Module,
		"priority", handler.Priority,
	)
}

// RegisterFunc registers fn with priority 0.
func (h *HookRegistry) RegisterFunc(hookName, handlerName, moduleName string, fn HookFunc) {
	h.Register(hookName, HookHandler{
		Name:   handlerName,
		Module: moduleName,
		Fn:     fn,
	})
}

// Call executes all handlers for hookName in priority order, passing each
// handler's result to the next. Handlers from inactive modules are skipped.
// The first error stops execution and is returned wrapped.
func (h *HookRegistry) Call(ctx context.Context, hookName string, data any) (any, error) {
	h.mu.RLock()
	handlers := h.hooks[hookName]
	isModuleActive := h.isModuleActive
	h.mu.RUnlock()

	current := data
	for _, handler := range handlers {
		if !isModuleActive(handler.Module) {
			continue
		}

		result, err := handler.Fn(ctx, current)
		if err != nil {
			h.logger.Debug("hook handler error",
				"hook", hookName,
				"handler", handler.Name,
				"module", handler.Module,
				"error", err,
			)
			return nil, fmt.Errorf("hook %s handler %s: %w", hookName, handler.Name, err)
		}
		current = result
	}

	return current, nil
}

// Dispatch calls hookName with data and returns the result as T. A handler
// returning a value of another type is an error.
func Dispatch[T any](ctx context.Context, h *HookRegistry, hookName string, data T) (T, error) {
	if h == nil {
		return data, nil
	}
	result, err := h.Call(ctx, hookName, data)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("hook %s returned %T, want %T", hookName, result, data)
	}
	return typed, nil
}

// HasHandlers returns true if there are handlers registered for the hook.
func (h *HookRegistry) HasHandlers(hookName string) bool {
	return h.HandlerCount(hookName) > 0
}

// HandlerCount returns the number of handlers registered for a hook.
func (h *HookRegistry) HandlerCount(hookName string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.hooks[hookName])
}

// ListHooks returns all hook names with at least one handler, sorted.
func (h *HookRegistry) ListHooks() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.hooks))
	for name, handlers := range h.hooks {
		if len(handlers) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// UnregisterAll removes all handlers registered by a module.
func (h *HookRegistry) UnregisterAll(moduleName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for hookName, handlers := range h.hooks {
		h.hooks[hookName] = slices.DeleteFunc(slices.Clone(handlers), func(hh HookHandler) bool {
			return hh.Module == moduleName
		})
	}

	h.logger.Debug("all hooks unregistered for module", "module", moduleName)
}
