package telephony

import (
	"net/url"
	"strconv"

	"github.com/twilio/twilio-go/twiml"

	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

const (
	// ProcessSpeechPath receives speech captured by a gather.
	ProcessSpeechPath = "/voice/process-speech"
	// GreetingPath is the first callback of an outbound call.
	GreetingPath = "/voice/gather"

	FarewellMessage = "Thank you for your time. Goodbye!"

	// fallbackDocument is served if the TwiML builder itself fails.
	fallbackDocument = `<?xml version="1.0" encoding="UTF-8"?><Response><Say>We are sorry, an error occurred. Goodbye.</Say><Hangup/></Response>`
)

// Renderer turns reply text into TwiML documents. It performs no I/O.
type Renderer struct {
	voice    string
	language string
	timeout  int
}

func NewRenderer(cfg Config) *Renderer {
	r := &Renderer{voice: cfg.Voice, language: cfg.Language, timeout: cfg.GatherTimeout}
	if r.voice == "" {
		r.voice = "Google.en-US-Neural2-F"
	}
	if r.language == "" {
		r.language = "en-US"
	}
	if r.timeout <= 0 {
		r.timeout = 10
	}
	return r
}

func (r *Renderer) say(text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Message: text, Voice: r.voice, Language: r.language}
}

// ProcessSpeechAction is the gather action for a lead; the key rides in the query string.
func ProcessSpeechAction(leadID string) string {
	if leadID == "" {
		return ProcessSpeechPath
	}
	return ProcessSpeechPath + "?" + url.Values{"lead_id": {leadID}}.Encode()
}

// RenderGather speaks prompt inside a speech gather. If the caller stays silent the
// call ends with the farewell.
func (r *Renderer) RenderGather(prompt, leadID string) string {
	gather := &twiml.VoiceGather{
		Input:         "speech",
		Timeout:       strconv.Itoa(r.timeout),
		SpeechTimeout: "auto",
		Action:        ProcessSpeechAction(leadID),
		Method:        "POST",
		Language:      r.language,
		InnerElements: []twiml.Element{r.say(prompt)},
	}
	return r.render([]twiml.Element{gather, r.say(FarewellMessage), &twiml.VoiceHangup{}})
}

// RenderFinal speaks prompt and hangs up.
func (r *Renderer) RenderFinal(prompt string) string {
	return r.render([]twiml.Element{r.say(prompt), &twiml.VoiceHangup{}})
}

func (r *Renderer) render(verbs []twiml.Element) string {
	doc, err := twiml.Voice(verbs)
	if err != nil {
		logx.Error().Err(err).Msg("failed to render twiml")
		return fallbackDocument
	}
	return doc
}
