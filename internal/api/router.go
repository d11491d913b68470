package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wires the tasks resource routes, request metrics and CORS.
func NewRouter(
	log *slog.Logger,
	repo repository.TaskRepoIface,
	appMetrics *metrics.Metrics,
	allowedOrigins []string,
) http.Handler {
	handler := NewHandler(log, repo)

	router := mux.NewRouter()
	router.Use(instrument(appMetrics))

	router.HandleFunc("/tasks", handler.ListTasks).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/tasks", handler.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}", handler.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{id}", handler.DeleteTask).Methods(http.MethodDelete)

	crs := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	return crs.Handler(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(appMetrics *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			startTime := time.Now()
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			appMetrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(recorder.status)).Inc()
			appMetrics.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}
