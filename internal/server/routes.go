package server

import (
	"net/http"

	"github.com/gorilla/mux"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/metrics"
)

type apiRoute struct {
	Version string
	Path    string
	Method  string
	Handler http.HandlerFunc
}

func (s *Server) routes() []apiRoute {
	return []apiRoute{
		{Version: "v1", Path: "/healthz", Method: http.MethodGet, Handler: s.handleHealth},
		{Version: "v1", Path: "/palettes", Method: http.MethodGet, Handler: s.handlePalettes},
		{Version: "v1", Path: "/expiries", Method: http.MethodGet, Handler: s.handleExpiries},
		{Version: "v1", Path: "/chain", Method: http.MethodGet, Handler: s.handleChain},
		{Version: "v1", Path: "/snapshot", Method: http.MethodGet, Handler: s.handleSnapshot},
		{Version: "v1", Path: "/intraday", Method: http.MethodGet, Handler: s.handleIntraday},
		{Version: "v1", Path: "/indicators", Method: http.MethodGet, Handler: s.handleIndicators},
		{Version: "v1", Path: "/dashboard/options", Method: http.MethodGet, Handler: s.handleOptions},
		{Version: "v1", Path: "/dashboard/exposure", Method: http.MethodGet, Handler: s.handleExposure},
	}
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestID, s.instrument)

	api := router.PathPrefix("/api/v1").Subrouter()
	if s.cfg.Compression {
		api.Use(zstdMiddleware)
	}
	for _, r := range s.routes() {
		api.HandleFunc(r.Path, r.Handler).Methods(r.Method)
	}

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.NotFoundHandler = s.requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apperrors.Wrapf(apperrors.ErrNotFound, "no route for %s", r.URL.Path), Meta{})
	}))
	return router
}
