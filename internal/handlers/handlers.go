package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/middleware"
	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/recall"
	"github.com/vancomm/recall-server/internal/settings"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log *logrus.Entry, status int, v any) {
	_, err := SendJSON(w, status, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

type ErrorDTO struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func wrapError(err error) ErrorDTO {
	dto := ErrorDTO{Error: err.Error()}
	var presetErr *UnknownPresetError
	if errors.As(err, &presetErr) {
		dto.Suggestion = presetErr.Suggestion
	}
	return dto
}

func sendError(w http.ResponseWriter, log *logrus.Entry, status int, err error) {
	sendJSONOrLog(w, log, status, wrapError(err))
}

// errorStatus maps domain errors to a response code. Anything unknown is a
// server failure.
func errorStatus(err error) int {
	var conversionErr schema.ConversionError
	var multiErr schema.MultiError
	switch {
	case errors.Is(err, recall.ErrNotActive),
		errors.Is(err, recall.ErrNotFlashing),
		errors.Is(err, recall.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, recall.ErrOutOfBounds),
		errors.Is(err, settings.ErrInvalidSettings),
		errors.Is(err, settings.ErrUnknownPreset),
		errors.Is(err, random.ErrZeroSeed),
		errors.Is(err, ErrBadFragment),
		errors.As(err, &conversionErr),
		errors.As(err, &multiErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// fail answers with the status err maps to, logging it when the fault is
// ours.
func fail(w http.ResponseWriter, log *logrus.Entry, msg string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error(msg)
		w.WriteHeader(status)
		return
	}
	log.WithError(err).Debug(msg)
	sendError(w, log, status, err)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Status reports whether the server and its database are reachable.
func Status(logger *logrus.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Entry(r.Context(), logger)
		if err := db.Ping(r.Context()); err != nil {
			log.WithError(err).Error("database unreachable")
			sendJSONOrLog(w, log, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
			return
		}
		sendJSONOrLog(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
