package videaserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/api"
	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/conversation"
)

// maxRequestBytes caps request bodies well above the largest accepted message.
const maxRequestBytes = 64 * 1024

type StartChatRequest struct {
	UserID string `json:"user_id"`
}

type StartChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type ChatMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type ConfirmRequest struct {
	ConversationID string `json:"conversation_id"`
	Confirmed      bool   `json:"confirmed"`
}

// ConversationResponse is the stored state plus the message log, with HATEOAS links.
type ConversationResponse struct {
	*intakev1.ConversationState
	Transcript []intakev1.LogEntry `json:"transcript"`
	Links      map[string]string   `json:"links"`
}

func failureResponse(w http.ResponseWriter, code int, message string) {
	api.RespondWithFailure(w, code, message)
}

// errorResponse maps conversation errors onto status codes.
func errorResponse(w http.ResponseWriter, logger *log.Entry, err error) {
	switch {
	case errors.Is(err, conversation.ErrInvalidRequest):
		failureResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, conversation.ErrNotFound):
		failureResponse(w, http.StatusNotFound, "Conversation not found")
	case errors.Is(err, conversation.ErrConflict), errors.Is(err, conversation.ErrClosed):
		failureResponse(w, http.StatusConflict, err.Error())
	default:
		logger.WithError(err).Error("error handling chat request")
		failureResponse(w, http.StatusInternalServerError, "Internal error, please try again")
	}
}

// decodeBody reads a JSON body. An empty body decodes as the zero value so optional
// payloads like the start request can be omitted.
func decodeBody(w http.ResponseWriter, req *http.Request, v any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, maxRequestBytes)
	err := json.NewDecoder(req.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
	return false
}

// jsonStartChat handles POST /api/chat/start.
func (s *Server) jsonStartChat(w http.ResponseWriter, req *http.Request) {
	var request StartChatRequest
	if !decodeBody(w, req, &request) {
		return
	}

	state, err := s.manager.Start(req.Context(), request.UserID)
	if err != nil {
		errorResponse(w, log.WithField("user", request.UserID), err)
		return
	}

	api.RespondWithJSON(http.StatusOK, w, StartChatResponse{
		ConversationID: state.ConversationID,
		Message:        state.Messages[len(state.Messages)-1].Content,
	})
}

// jsonChatMessage handles POST /api/chat/message.
func (s *Server) jsonChatMessage(w http.ResponseWriter, req *http.Request) {
	var request ChatMessageRequest
	if !decodeBody(w, req, &request) {
		return
	}

	reply, err := s.manager.HandleMessage(req.Context(), request.ConversationID, request.Message)
	if err != nil {
		errorResponse(w, log.WithField("conversation", request.ConversationID), err)
		return
	}
	api.RespondWithJSON(http.StatusOK, w, reply)
}

// jsonConfirm handles POST /api/chat/confirm.
func (s *Server) jsonConfirm(w http.ResponseWriter, req *http.Request) {
	var request ConfirmRequest
	if !decodeBody(w, req, &request) {
		return
	}

	result, err := s.manager.Confirm(req.Context(), request.ConversationID, request.Confirmed)
	if err != nil {
		errorResponse(w, log.WithField("conversation", request.ConversationID), err)
		return
	}
	api.RespondWithJSON(http.StatusOK, w, result)
}

// jsonGetConversation handles GET /api/chat/conversations/{id}.
func (s *Server) jsonGetConversation(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	state, err := s.manager.Get(req.Context(), id)
	if err != nil {
		errorResponse(w, log.WithField("conversation", id), err)
		return
	}

	transcript, err := s.manager.Transcript(req.Context(), id)
	if err != nil {
		errorResponse(w, log.WithField("conversation", id), err)
		return
	}

	baseURL := api.GetBaseURL(req)
	api.RespondWithJSON(http.StatusOK, w, ConversationResponse{
		ConversationState: state,
		Transcript:        transcript,
		Links: map[string]string{
			"self": fmt.Sprintf("%s/api/chat/conversations/%s", baseURL, state.ConversationID),
		},
	})
}
