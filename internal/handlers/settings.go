package handlers

import (
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/middleware"
	"github.com/vancomm/recall-server/internal/settings"
)

type SettingsHandler struct {
	logger    *logrus.Logger
	publicURL *url.URL
}

func NewSettingsHandler(logger *logrus.Logger, publicURL *url.URL) *SettingsHandler {
	return &SettingsHandler{logger: logger, publicURL: publicURL}
}

type PresetDTO struct {
	Name     string                `json:"name"`
	Settings settings.GameSettings `json:"settings"`
	Fragment string                `json:"fragment"`
}

func newPresetDTO(p settings.Preset) PresetDTO {
	return PresetDTO{p.Name, p.Settings, settings.Fragment(p.Settings)}
}

func (h SettingsHandler) Presets(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), h.logger)
	presets := settings.Presets()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = newPresetDTO(p)
	}
	sendJSONOrLog(w, log, http.StatusOK, dtos)
}

func (h SettingsHandler) Preset(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), h.logger)
	name := r.PathValue("name")
	p, suggestion, err := settings.FindPreset(name)
	if err != nil {
		sendError(w, log, http.StatusNotFound, &UnknownPresetError{name, suggestion})
		return
	}
	sendJSONOrLog(w, log, http.StatusOK, newPresetDTO(p))
}

type ShareDTO struct {
	Settings settings.GameSettings `json:"settings"`
	Fragment string                `json:"fragment"`
	URL      string                `json:"url"`
}

// Share turns settings given as query parameters into a fragment and a
// link to the client with that fragment attached.
func (h SettingsHandler) Share(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), h.logger)

	q, err := ParseSettingsQuery(r.URL.Query())
	if err != nil {
		fail(w, log, "bad share query", err)
		return
	}
	s, _, err := q.Resolve()
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		fail(w, log, "unable to share settings", err)
		return
	}

	addr := settings.NewMemoryAddress("")
	link := settings.Share(addr, h.publicURL, s)
	sendJSONOrLog(w, log, http.StatusOK, ShareDTO{
		Settings: s,
		Fragment: addr.Read(),
		URL:      link,
	})
}

type FieldDTO struct {
	Value any                 `json:"value"`
	State settings.FieldState `json:"state"`
}

type ParseDTO struct {
	Found     bool                  `json:"found"`
	Settings  settings.GameSettings `json:"settings"`
	Fields    map[string]FieldDTO   `json:"fields"`
	Defaulted []string              `json:"defaulted"`
}

// Parse decodes ?fragment= exactly as a client reading its own address
// would. Without the marker nothing is decoded and the defaults stand.
func (h SettingsHandler) Parse(w http.ResponseWriter, r *http.Request) {
	log := middleware.Entry(r.Context(), h.logger)

	partial := settings.Decode(r.URL.Query().Get("fragment"))
	dto := ParseDTO{
		Found:     partial != nil,
		Settings:  partial.Apply(settings.Defaults()),
		Fields:    map[string]FieldDTO{},
		Defaulted: []string{},
	}
	if partial != nil {
		values := partial.Values()
		states := partial.States()
		for _, key := range partial.Keys() {
			dto.Fields[key] = FieldDTO{values[key], states[key]}
		}
		dto.Defaulted = partial.Defaulted()
	}
	dto.Settings.SelectedPreset = settings.MatchPreset(dto.Settings)
	sendJSONOrLog(w, log, http.StatusOK, dto)
}
