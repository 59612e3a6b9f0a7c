package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/recall-server/internal/settings"
)

func newSettingsRouter(t *testing.T) *http.ServeMux {
	public, err := url.Parse("https://recall.example/play?ref=1")
	require.NoError(t, err)
	s := NewSettingsHandler(quietLogger(), public)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /presets", s.Presets)
	mux.HandleFunc("GET /presets/{name}", s.Preset)
	mux.HandleFunc("GET /settings/share", s.Share)
	mux.HandleFunc("GET /settings/parse", s.Parse)
	return mux
}

func TestPresets(t *testing.T) {
	h := newSettingsRouter(t)
	rec := do(h, "GET", "/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	presets := decode[[]PresetDTO](t, rec)
	require.Len(t, presets, len(settings.Presets()))
	for _, p := range presets {
		assert.Equal(t, settings.Fragment(p.Settings), p.Fragment)
		assert.Equal(t, p.Name, p.Settings.SelectedPreset)
	}
}

func TestPreset(t *testing.T) {
	h := newSettingsRouter(t)
	rec := do(h, "GET", "/presets/HARD", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, settings.PresetHard, decode[PresetDTO](t, rec).Name)

	rec = do(h, "GET", "/presets/hrad", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, settings.PresetHard, decode[ErrorDTO](t, rec).Suggestion)
}

func TestShare(t *testing.T) {
	h := newSettingsRouter(t)
	rec := do(h, "GET", "/settings/share?rows=5&cols=5&numItems=8&seed=9", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dto := decode[ShareDTO](t, rec)
	fragment := "#?rows=5&cols=5&numItems=8&flashTime=2&maxAttempts=0" +
		"&allOrNothing=false&unordered=false&seed=9"
	assert.Equal(t, fragment, dto.Fragment)
	assert.Equal(t, "https://recall.example/play"+fragment, dto.URL)
	assert.Equal(t, settings.PresetCustom, dto.Settings.SelectedPreset)

	rec = do(h, "GET", "/settings/share?preset=easy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, settings.PresetEasy, decode[ShareDTO](t, rec).Settings.SelectedPreset)

	assert.Equal(t, http.StatusBadRequest, do(h, "GET", "/settings/share?rows=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "GET", "/settings/share?preset=nope", nil).Code)
}

func TestParse(t *testing.T) {
	h := newSettingsRouter(t)
	fragment := url.QueryEscape("#?rows=5&cols=x&bogus=1")
	rec := do(h, "GET", "/settings/parse?fragment="+fragment, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[ParseDTO](t, rec)
	assert.True(t, dto.Found)
	assert.Equal(t, 5, dto.Settings.Rows)
	assert.Equal(t, settings.DefaultCols, dto.Settings.Cols)
	assert.Equal(t, []string{settings.KeyCols}, dto.Defaulted)
	require.Len(t, dto.Fields, 2)
	assert.Equal(t, 5.0, dto.Fields[settings.KeyRows].Value)
	assert.Equal(t, settings.Present, dto.Fields[settings.KeyRows].State)
	assert.Equal(t, settings.Defaulted, dto.Fields[settings.KeyCols].State)
}

func TestParseWithoutMarker(t *testing.T) {
	h := newSettingsRouter(t)
	rec := do(h, "GET", "/settings/parse?fragment=rows%3D5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[ParseDTO](t, rec)
	assert.False(t, dto.Found)
	assert.Equal(t, settings.Defaults(), dto.Settings)
	assert.Empty(t, dto.Fields)
}
