// Package api holds small helpers shared by the HTTP and MCP surfaces.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RespondWithJSON writes data as a JSON body with the given status code.
func RespondWithJSON(statusCode int, w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("error writing response")
	}
}

// Failure is the body of every non-2xx response.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func RespondWithFailure(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(code, w, Failure{Code: code, Message: message})
}

// GetBaseURL returns scheme://host for building links back to this server, honouring
// the usual proxy headers.
func GetBaseURL(req *http.Request) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if fwd := req.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	host := req.Host
	if fwd := req.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return fmt.Sprintf("%s://%s", scheme, host)
}
