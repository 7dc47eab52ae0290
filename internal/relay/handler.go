package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"courier/internal/domain"
)

// maxEntryBody caps PUT /entries bodies a little above the unlimited tier;
// admission still applies the exact tier bound.
const maxEntryBody = 64 << 10

// Handler exposes the relay service over HTTP.
type Handler struct {
	svc     *Service
	log     *zap.Logger
	metrics http.Handler
}

// NewHandler builds the HTTP surface. metricsHandler may be nil to disable
// the /metrics route; logger may be nil.
func NewHandler(svc *Service, logger *zap.Logger, metricsHandler http.Handler) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, log: logger, metrics: metricsHandler}
}

// Routes returns the relay router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/blobs", h.uploadBlob)
	r.Get("/blobs/{location}", h.getBlob)
	r.Put("/entries/{name}", h.putEntry)
	r.Get("/entries/{name}", h.getEntry)
	r.Post("/purge", h.purge)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}
	return r
}

// uploadBlob accepts a byte stream plus an optional lifetime in minutes.
// An absent lifetime means unlimited; zero or negative values are a caller
// contract violation, not a policy rejection.
func (h *Handler) uploadBlob(w http.ResponseWriter, r *http.Request) {
	lifetime, ok := h.parseLifetime(w, r)
	if !ok {
		return
	}
	loc, err := h.svc.Upload(r.Context(), r.Body, r.ContentLength, lifetime)
	if err != nil {
		h.writeAdmissionError(w, err)
		return
	}
	w.Header().Set("Location", "/blobs/"+loc.String())
	writeJSON(w, http.StatusCreated, map[string]string{"location": loc.String()})
}

func (h *Handler) getBlob(w http.ResponseWriter, r *http.Request) {
	loc := domain.Location(chi.URLParam(r, "location"))
	rc, err := h.svc.OpenBlob(r.Context(), loc)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}

func (h *Handler) putEntry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEntryBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	loc, err := h.svc.PublishEntry(r.Context(), name, raw)
	if err != nil {
		if errors.Is(err, ErrInvalidEntryName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeAdmissionError(w, err)
		return
	}
	w.Header().Set("Location", "/entries/"+name)
	writeJSON(w, http.StatusCreated, map[string]string{"location": loc.String()})
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	rc, err := h.svc.OpenEntry(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, ErrInvalidEntryName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeFetchError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", domain.EntryMediaType)
	_, _ = io.Copy(w, rc)
}

// purge removes blobs expired at or before the cutoff, defaulting to now.
func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now()
	if v := r.URL.Query().Get("before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "before must be RFC 3339")
			return
		}
		cutoff = t
	}
	purged, err := h.svc.PurgeExpiredBefore(r.Context(), cutoff)
	if err != nil {
		h.log.Error("purge failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "purge failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"purged": purged})
}

func (h *Handler) parseLifetime(w http.ResponseWriter, r *http.Request) (time.Duration, bool) {
	v := r.URL.Query().Get("lifetime")
	if v == "" {
		return domain.LifetimeUnlimited, true
	}
	minutes, err := strconv.ParseInt(v, 10, 64)
	if err != nil || minutes <= 0 {
		writeError(w, http.StatusBadRequest, "lifetime must be a positive number of minutes")
		return 0, false
	}
	return time.Duration(minutes) * time.Minute, true
}

func (h *Handler) writeAdmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBlobTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrLifetimeTooLong):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrTemporarilyUnavailable):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "upload failed")
	}
}

func (h *Handler) writeFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrBlobNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	h.log.Error("fetch failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "fetch failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
