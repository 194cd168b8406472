package calls

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
)

// Call states. A machine lives for one request; the state a callback starts
// from is implied by which webhook Twilio invoked.
const (
	StateIdle           = "idle"
	StateGreeting       = "greeting"
	StateAwaitingSpeech = "awaiting_speech"
	StateProcessing     = "processing"
	StateEnded          = "ended"
)

const (
	EventInitiate = "initiate"
	EventGreet    = "greet"
	EventSilence  = "silence"
	EventSpeech   = "speech"
	EventReply    = "reply"
	EventFail     = "fail"
)

func newTurnMachine(initial, leadID string) *fsm.FSM {
	return fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: EventInitiate, Src: []string{StateIdle}, Dst: StateGreeting},
			{Name: EventGreet, Src: []string{StateGreeting}, Dst: StateAwaitingSpeech},
			{Name: EventSilence, Src: []string{StateAwaitingSpeech}, Dst: StateAwaitingSpeech},
			{Name: EventSpeech, Src: []string{StateAwaitingSpeech}, Dst: StateProcessing},
			{Name: EventReply, Src: []string{StateProcessing}, Dst: StateAwaitingSpeech},
			{Name: EventFail, Src: []string{StateIdle, StateGreeting, StateAwaitingSpeech, StateProcessing}, Dst: StateEnded},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logx.Debug().
					Str("lead_id", leadID).
					Str("event", e.Event).
					Str("from", e.Src).
					Str("state", e.Dst).
					Msg("call state changed")
			},
		},
	)
}

// fire runs an event; a self-transition is not an error.
func fire(ctx context.Context, m *fsm.FSM, event string) error {
	err := m.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}
