package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/meetrelay-server/internal/store"
)

// listMeetingsLimit caps the history page returned to a client.
const listMeetingsLimit = 100

// MeetingHandlers provides HTTP handlers for meeting history endpoints.
type MeetingHandlers struct {
	store store.MeetingStore
	log   *zerolog.Logger
}

// NewMeetingHandlers creates a new meeting handlers instance.
func NewMeetingHandlers(st store.MeetingStore, logger *zerolog.Logger) *MeetingHandlers {
	return &MeetingHandlers{
		store: st,
		log:   logger,
	}
}

// AddMeetingRequest represents the add-to-history request body.
type AddMeetingRequest struct {
	Code string `json:"code" binding:"required,min=1,max=64"`
}

// MeetingResponse represents a meeting history entry in API responses.
type MeetingResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	StartedAt string `json:"started_at"`
}

// Add records a meeting join in the caller's history.
// POST /api/v1/meetings
func (h *MeetingHandlers) Add(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req AddMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid add meeting request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	meeting, err := h.store.AddMeeting(c.Request.Context(), uid, req.Code, time.Now())
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Str("code", req.Code).Msg("failed to add meeting")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, meetingResponse(meeting))
}

// List returns the caller's meeting history, newest first.
// GET /api/v1/meetings
func (h *MeetingHandlers) List(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		h.log.Error().Msg("user_id not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	meetings, err := h.store.ListMeetings(c.Request.Context(), uid, listMeetingsLimit)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to list meetings")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		response = append(response, meetingResponse(m))
	}

	c.JSON(http.StatusOK, response)
}

func meetingResponse(m *store.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:        m.ID,
		Code:      m.Code,
		StartedAt: m.StartedAt.UTC().Format(time.RFC3339),
	}
}
