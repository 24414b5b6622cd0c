package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hazyhaar/maktaba/pkg/kit"
	"github.com/hazyhaar/maktaba/pkg/library"
)

// NewRouter returns an http.Handler with the read-only catalog API.
// Mutations go through the Telegram admin flows, not HTTP.
func NewRouter(ep *Endpoints, svc *library.Service) http.Handler {
	mux := http.NewServeMux()
	h := &handler{ep: ep, svc: svc}

	mux.HandleFunc("GET /v1/resolve/{query}", h.handleResolve)
	mux.HandleFunc("GET /v1/suggest/{query}", h.handleSuggest)
	mux.HandleFunc("GET /v1/scholars", h.handleScholars)
	mux.HandleFunc("GET /v1/books", h.handleTitles)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	ep  *Endpoints
	svc *library.Service
}

func (h *handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}

	ctx := kit.WithTransport(r.Context(), "http")
	resp, err := h.ep.Resolve(ctx, &resolveReq{Query: query})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx := kit.WithTransport(r.Context(), "http")
	resp, err := h.ep.Suggest(ctx, &suggestReq{Query: query, Limit: limit})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleScholars(w http.ResponseWriter, r *http.Request) {
	ctx := kit.WithTransport(r.Context(), "http")
	resp, err := h.ep.Scholars(ctx, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleTitles(w http.ResponseWriter, r *http.Request) {
	scholar := r.URL.Query().Get("scholar")
	if scholar == "" {
		writeError(w, http.StatusBadRequest, "missing scholar parameter")
		return
	}

	ctx := kit.WithTransport(r.Context(), "http")
	resp, err := h.ep.Titles(ctx, &titlesReq{Scholar: scholar})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status string `json:"status"`
	Books  int    `json:"books"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Books: n})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
