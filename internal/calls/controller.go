package calls

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/looplab/fsm"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/telephony"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

const (
	RepeatMessage  = "I didn't catch that. Could you please say that again?"
	ApologyMessage = "I'm sorry, I'm having trouble right now. Someone from our team will follow up with you. Goodbye!"

	// StatusInitiated is reported once Twilio accepted the call.
	StatusInitiated = "initiated"
)

// Replier runs one chat turn and persists the exchange on success.
type Replier interface {
	Reply(ctx context.Context, in model.ChatInput) (model.ChatResult, error)
}

// Config is the call-flow configuration.
type Config struct {
	DefaultLeadID string `envconfig:"DEFAULT_LEAD_ID" default:"lead_001"`
	BusinessName  string `ignored:"true"`
}

// CallResult describes a placed outbound call.
type CallResult struct {
	CallSID      string `json:"call_sid"`
	CustomerName string `json:"customer_name"`
	PhoneNumber  string `json:"phone_number"`
	Status       string `json:"status"`
}

// Controller drives the voice conversation for every Twilio webhook. Webhook
// entry points always return a TwiML document, whatever fails underneath.
type Controller struct {
	leads     model.LeadDirectory
	agent     Replier
	renderer  *telephony.Renderer
	dialer    telephony.Dialer
	telephony telephony.Config
	config    Config
}

func NewController(
	leads model.LeadDirectory,
	agent Replier,
	renderer *telephony.Renderer,
	dialer telephony.Dialer,
	telephonyConfig telephony.Config,
	config Config,
) *Controller {
	if config.DefaultLeadID == "" {
		config.DefaultLeadID = "lead_001"
	}
	return &Controller{
		leads:     leads,
		agent:     agent,
		renderer:  renderer,
		dialer:    dialer,
		telephony: telephonyConfig,
		config:    config,
	}
}

// LeadKey picks the lead id from the form, then the query string, then the default.
func (c *Controller) LeadKey(formValue, queryValue string) string {
	if v := strings.TrimSpace(formValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(queryValue); v != "" {
		return v
	}
	return c.config.DefaultLeadID
}

// Initiate places an outbound call whose first webhook greets the lead.
func (c *Controller) Initiate(ctx context.Context, leadID string) (CallResult, error) {
	lead, err := c.leads.Resolve(leadID)
	if err != nil {
		return CallResult{}, err
	}

	callback := c.telephony.CallbackURL(telephony.GreetingPath + "?" + url.Values{"lead_id": {lead.ID}}.Encode())
	if callback == "" {
		return CallResult{}, errx.ConfigMissing("WEBHOOK_BASE_URL")
	}

	to := lead.Phone
	if override := strings.TrimSpace(c.telephony.CustomerPhoneNumber); override != "" {
		to = override
	}

	m := newTurnMachine(StateIdle, lead.ID)
	sid, err := c.dialer.PlaceCall(ctx, to, callback)
	if err != nil {
		logx.Error().Err(err).Str("lead_id", lead.ID).Str("to", to).Msg("failed to place call")
		return CallResult{}, err
	}
	if err := fire(ctx, m, EventInitiate); err != nil {
		return CallResult{}, err
	}

	logx.Info().Str("lead_id", lead.ID).Str("call_sid", sid).Str("to", to).Msg("call initiated")
	return CallResult{
		CallSID:      sid,
		CustomerName: lead.Name,
		PhoneNumber:  to,
		Status:       StatusInitiated,
	}, nil
}

// Greeting answers the first webhook of a call.
func (c *Controller) Greeting(ctx context.Context, leadID string) (doc string) {
	m := newTurnMachine(StateGreeting, leadID)
	defer c.recoverInto(ctx, m, leadID, &doc)

	lead, err := c.leads.Resolve(leadID)
	if err != nil {
		logx.Warn().Err(err).Str("lead_id", leadID).Msg("greeting for unknown lead")
		return c.end(ctx, m)
	}
	if err := fire(ctx, m, EventGreet); err != nil {
		logx.Error().Err(err).Str("lead_id", leadID).Msg("greeting transition failed")
		return c.end(ctx, m)
	}
	return c.respond(ctx, m, c.greetingText(lead), lead.ID)
}

// ProcessSpeech answers a gather callback. Silence re-prompts without touching
// history or the model; any failure ends the call with an apology.
func (c *Controller) ProcessSpeech(ctx context.Context, leadID, speech string) (doc string) {
	m := newTurnMachine(StateAwaitingSpeech, leadID)
	defer c.recoverInto(ctx, m, leadID, &doc)

	speech = strings.TrimSpace(speech)
	if speech == "" {
		if err := fire(ctx, m, EventSilence); err != nil {
			logx.Error().Err(err).Str("lead_id", leadID).Msg("silence transition failed")
			return c.end(ctx, m)
		}
		logx.Info().Str("lead_id", leadID).Msg("no speech detected")
		return c.respond(ctx, m, RepeatMessage, leadID)
	}

	if err := fire(ctx, m, EventSpeech); err != nil {
		logx.Error().Err(err).Str("lead_id", leadID).Msg("speech transition failed")
		return c.end(ctx, m)
	}

	result, err := c.agent.Reply(ctx, model.ChatInput{Message: speech, LeadID: leadID})
	if err != nil {
		logx.Error().Err(err).Str("lead_id", leadID).Str("state", m.Current()).Msg("speech turn failed")
		return c.end(ctx, m)
	}

	if err := fire(ctx, m, EventReply); err != nil {
		logx.Error().Err(err).Str("lead_id", leadID).Msg("reply transition failed")
		return c.end(ctx, m)
	}
	logx.Info().
		Str("lead_id", leadID).
		Int("conversation_length", result.ConversationLength).
		Msg("speech turn answered")
	return c.respond(ctx, m, result.AIResponse, result.LeadID)
}

// respond renders the document the machine's state allows: a gather only while
// awaiting speech, otherwise the apology and hangup.
func (c *Controller) respond(ctx context.Context, m *fsm.FSM, prompt, leadID string) string {
	if m.Current() != StateAwaitingSpeech {
		logx.Warn().Str("lead_id", leadID).Str("state", m.Current()).Msg("call not awaiting speech")
		return c.end(ctx, m)
	}
	return c.renderer.RenderGather(prompt, leadID)
}

func (c *Controller) end(ctx context.Context, m *fsm.FSM) string {
	if m.Can(EventFail) {
		_ = fire(ctx, m, EventFail)
	}
	return c.renderer.RenderFinal(ApologyMessage)
}

func (c *Controller) recoverInto(ctx context.Context, m *fsm.FSM, leadID string, doc *string) {
	if r := recover(); r != nil {
		logx.Error().Str("lead_id", leadID).Str("panic", fmt.Sprint(r)).Msg("recovered from panic in call turn")
		*doc = c.end(ctx, m)
	}
}

func (c *Controller) greetingText(lead model.Lead) string {
	name := lead.Name
	if first, _, ok := strings.Cut(name, " "); ok {
		name = first
	}
	team := "the sales team"
	if c.config.BusinessName != "" {
		team = "the " + c.config.BusinessName + " sales team"
	}
	return fmt.Sprintf("Hi %s, this is %s following up on your inquiry. What are you hoping to print?", name, team)
}
