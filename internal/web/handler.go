// Copyright 2026 Chris Waring
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package web serves the embedded inspection UI and its JSON API.
package web

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/cwaring/ucan-inspector/internal/inspect"
	"github.com/cwaring/ucan-inspector/internal/mock"
	"github.com/cwaring/ucan-inspector/internal/report"
)

const maxRequestBody = 1 << 20 // 1MB

// ListenAndServe starts the HTTP server on the given port. If prefill is
// non-empty it is offered to the UI via GET /api/prefill.
func ListenAndServe(port int, prefill string) error {
	mux := NewMux(prefill)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// NewMux creates the HTTP handler with API and static file routes.
func NewMux(prefill string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/inspect", handleInspect)
	mux.HandleFunc("GET /api/sample", handleSample)
	mux.HandleFunc("GET /api/prefill", handlePrefill(prefill))

	sub, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

func handlePrefill(prefill string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"input": prefill})
	}
}

type inspectRequest struct {
	Input string `json:"input"`

	// Ticket is echoed back so the UI can discard stale responses when a
	// newer inspection was started meanwhile.
	Ticket       int64  `json:"ticket"`
	Format       string `json:"format"`
	IncludeBytes bool   `json:"includeBytes"`
}

func handleInspect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req inspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	format := report.FormatJSON
	if req.Format == string(report.FormatDAGJSON) {
		format = report.FormatDAGJSON
	}

	rep := inspect.New().Inspect(r.Context(), req.Input)
	exported, err := report.Export(rep, report.Options{Format: format, IncludeBytes: req.IncludeBytes})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"ticket": %d, "report": `, req.Ticket)
	w.Write([]byte(exported))
	w.Write([]byte("}"))
}

func handleSample(w http.ResponseWriter, r *http.Request) {
	sample, err := mock.SampleContainer('C')
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"input": string(sample)})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
