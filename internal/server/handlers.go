package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/calls"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

const twimlContentType = "application/xml; charset=utf-8"

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Leads lists and resolves lead records.
type Leads interface {
	List() []model.Lead
	Resolve(id string) (model.Lead, error)
}

// Chat runs chat turns and manages stored histories.
type Chat interface {
	Reply(ctx context.Context, in model.ChatInput) (model.ChatResult, error)
	History(ctx context.Context, leadID string) ([]model.Turn, error)
	ClearHistory(ctx context.Context, leadID string) error
}

// Calls drives the voice flow.
type Calls interface {
	LeadKey(formValue, queryValue string) string
	Initiate(ctx context.Context, leadID string) (calls.CallResult, error)
	Greeting(ctx context.Context, leadID string) string
	ProcessSpeech(ctx context.Context, leadID, speech string) string
}

type Handler struct {
	leads Leads
	chat  Chat
	calls Calls
}

func NewHandler(leads Leads, chat Chat, calls Calls) *Handler {
	return &Handler{leads: leads, chat: chat, calls: calls}
}

func respondError(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	detail := errx.MessageOf(err)
	if errors.Is(err, errx.ErrGeneration) {
		detail = err.Error()
	}
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Int("status", status).Msg("request failed")
	}
	c.JSON(status, ErrorResponse{Detail: detail})
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI Sales Agent is running!"})
}

func (h *Handler) ListLeads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leads": h.leads.List()})
}

func (h *Handler) GetLead(c *gin.Context) {
	lead, err := h.leads.Resolve(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) Chat(c *gin.Context) {
	var in model.ChatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: fmt.Sprintf("%s: %v", errx.InvalidInputMessage, err)})
		return
	}

	result, err := h.chat.Reply(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetHistory(c *gin.Context) {
	lead, err := h.leads.Resolve(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	leadID := lead.ID
	turns, err := h.chat.History(c.Request.Context(), leadID)
	if errors.Is(err, errx.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"lead_id":              leadID,
			"conversation_history": []model.Turn{},
			"count":                0,
			"note":                 "No conversation history found for this lead",
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lead_id":              leadID,
		"conversation_history": turns,
		"count":                len(turns),
	})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	leadID := c.Param("id")
	if err := h.chat.ClearHistory(c.Request.Context(), leadID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Conversation history cleared for lead %s", leadID)})
}

func (h *Handler) CustomerPhone(c *gin.Context) {
	lead, err := h.leads.Resolve(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lead_id":       lead.ID,
		"customer_name": lead.Name,
		"phone_number":  lead.Phone,
		"company":       lead.Company,
	})
}

func (h *Handler) InitiateCall(c *gin.Context) {
	result, err := h.calls.Initiate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) twiml(c *gin.Context, doc string) {
	c.Data(http.StatusOK, twimlContentType, []byte(doc))
}

func (h *Handler) voiceLeadID(c *gin.Context) string {
	leadID := h.calls.LeadKey(c.PostForm("lead_id"), c.Query("lead_id"))
	logx.Info().
		Str("request_id", c.GetString(requestIDKey)).
		Str("call_sid", c.PostForm("CallSid")).
		Str("lead_id", leadID).
		Str("path", c.Request.URL.Path).
		Msg("voice webhook")
	return leadID
}

func (h *Handler) Gather(c *gin.Context) {
	leadID := h.voiceLeadID(c)
	h.twiml(c, h.calls.Greeting(c.Request.Context(), leadID))
}

func (h *Handler) ProcessSpeech(c *gin.Context) {
	leadID := h.voiceLeadID(c)
	h.twiml(c, h.calls.ProcessSpeech(c.Request.Context(), leadID, c.PostForm("SpeechResult")))
}
