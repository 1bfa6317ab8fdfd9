package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/registry"
	"github.com/lrevnic/salt/internal/sysmod"
)

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Error    string `json:"error"`
	Registry string `json:"registry,omitempty"`
}

type handlers struct {
	engine *sysmod.Engine
	logger *zap.Logger
}

func (h *handlers) doc(w http.ResponseWriter, r *http.Request) {
	docs, err := h.engine.Doc(r.Context(), names(r)...)
	h.respond(w, r, docs, err)
}

func (h *handlers) stateDoc(w http.ResponseWriter, r *http.Request) {
	docs, err := h.engine.StateDoc(r.Context(), names(r)...)
	h.respond(w, r, docs, err)
}

func (h *handlers) listFunctions(w http.ResponseWriter, r *http.Request) {
	functions, err := h.engine.ListFunctions(r.Context(), names(r)...)
	h.respond(w, r, functions, err)
}

func (h *handlers) listStateFunctions(w http.ResponseWriter, r *http.Request) {
	functions, err := h.engine.ListStateFunctions(r.Context(), names(r)...)
	h.respond(w, r, functions, err)
}

func (h *handlers) listModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.engine.ListModules(r.Context())
	h.respond(w, r, modules, err)
}

func (h *handlers) listStateModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.engine.ListStateModules(r.Context())
	h.respond(w, r, modules, err)
}

func (h *handlers) argspec(w http.ResponseWriter, r *http.Request) {
	specs, err := h.engine.Argspec(r.Context(), r.URL.Query().Get("module"))
	h.respond(w, r, specs, err)
}

func (h *handlers) reloadModules(w http.ResponseWriter, r *http.Request) {
	ok, err := h.engine.ReloadModules(r.Context())
	h.respond(w, r, ok, err)
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, errorResponse{Error: "no such endpoint: " + r.URL.Path})
}

func (h *handlers) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusMethodNotAllowed, errorResponse{Error: r.Method + " not allowed on " + r.URL.Path})
}

// respond writes result as JSON, or the error. An unavailable registry is
// 503 with the registry kind; anything else is 500.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, result interface{}, err error) {
	if err == nil {
		h.render(w, r, http.StatusOK, result)
		return
	}

	h.logger.Warn("query failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("subject", GetSubject(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	var unavailable *registry.UnavailableError
	if errors.As(err, &unavailable) {
		h.render(w, r, http.StatusServiceUnavailable, errorResponse{
			Error:    err.Error(),
			Registry: string(unavailable.Kind),
		})
		return
	}
	h.render(w, r, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// render writes body and logs an encoding or write failure. The status
// line is already sent by then, so the client sees a truncated body.
func (h *handlers) render(w http.ResponseWriter, r *http.Request, statusCode int, body interface{}) {
	if err := renderJSON(w, statusCode, body); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

// names returns the repeated "name" query parameters with key=value items
// dropped.
func names(r *http.Request) []string {
	terms, _ := sysmod.SplitArgs(r.URL.Query()["name"])
	return terms
}

func renderJSON(w http.ResponseWriter, statusCode int, body interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}
