package videaserver

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/api"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	AIService string `json:"ai_service"`
}

// jsonHealth always answers 200; the body says which dependencies are reachable.
func (s *Server) jsonHealth(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		AIService: "available",
	}
	if s.db == nil {
		response.Database = "unavailable"
	} else if err := s.db.Ping(); err != nil {
		log.WithError(err).Warn("database ping failed")
		response.Database = "unavailable"
	}
	if !s.aiEnabled {
		response.AIService = "unavailable"
	}
	api.RespondWithJSON(http.StatusOK, w, response)
}

func (s *Server) jsonListPersonas(w http.ResponseWriter, req *http.Request) {
	personas, err := s.catalog.ListPersonas(req.Context())
	if err != nil {
		log.WithError(err).Error("error listing personas")
		failureResponse(w, http.StatusInternalServerError, "Failed to list personas")
		return
	}
	api.RespondWithJSON(http.StatusOK, w, personas)
}

func (s *Server) jsonCollectionForPersona(w http.ResponseWriter, req *http.Request) {
	personaID := mux.Vars(req)["persona_id"]

	collection, err := s.catalog.CollectionForPersona(req.Context(), personaID)
	if err != nil {
		log.WithError(err).WithField("persona", personaID).Error("error loading collection")
		failureResponse(w, http.StatusInternalServerError, "Failed to load collection")
		return
	}
	if collection == nil {
		failureResponse(w, http.StatusNotFound, "No active collection for persona "+personaID)
		return
	}
	api.RespondWithJSON(http.StatusOK, w, collection)
}
