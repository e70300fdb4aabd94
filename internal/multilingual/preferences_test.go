// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package multilingual

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesPrunedOnRead(t *testing.T) {
	fields := &fakeFields{values: map[int64]string{
		2: `["fr","zh_CN","xx","zh_CN","en"]`,
		4: `not json`,
	}}
	svc := newTestService(t, defaultSettings(), fields)
	ctx := context.Background()

	got, err := svc.Preferences.ContentLanguages(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"zh_CN", "en"}, got)
	assert.Equal(t, `["fr","zh_CN","xx","zh_CN","en"]`, fields.values[2], "stored value untouched")

	got, err = svc.Preferences.ContentLanguages(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.Preferences.ContentLanguages(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = svc.Preferences.ContentLanguages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPreferencesFollowSettings(t *testing.T) {
	fields := &fakeFields{values: map[int64]string{2: `["fr","en"]`}}

	s := defaultSettings()
	s.ContentLanguages = []string{"en", "fr"}
	svc := newTestService(t, s, fields)

	got, err := svc.Preferences.ContentLanguages(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "en"}, got)
}
