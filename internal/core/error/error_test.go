package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestStatusAndMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		status  int
		message string
		target  error
	}{
		{name: "not found", err: NotFound("Lead not found"), status: http.StatusNotFound, message: "Lead not found", target: ErrNotFound},
		{name: "generation", err: Generation(errors.New("timeout")), status: http.StatusInternalServerError, message: GenerationErrorMessage, target: ErrGeneration},
		{name: "config missing", err: ConfigMissing("WEBHOOK_BASE_URL"), status: http.StatusServiceUnavailable, message: ConfigMissingMessage, target: ErrConfigMissing},
		{name: "invalid", err: Invalid("message is required"), status: http.StatusBadRequest, message: "message is required", target: ErrInvalidInput},
		{name: "wrapped", err: fmt.Errorf("compose: %w", NotFound("Lead not found")), status: http.StatusNotFound, message: "Lead not found", target: ErrNotFound},
		{name: "plain", err: errors.New("boom"), status: http.StatusInternalServerError, message: SystemErrorMessage},
		{name: "bare sentinel", err: fmt.Errorf("x: %w", ErrConfigMissing), status: http.StatusServiceUnavailable, message: SystemErrorMessage, target: ErrConfigMissing},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := StatusOf(tc.err); got != tc.status {
				t.Fatalf("StatusOf() = %d, want %d", got, tc.status)
			}
			if got := MessageOf(tc.err); got != tc.message {
				t.Fatalf("MessageOf() = %q, want %q", got, tc.message)
			}
			if tc.target != nil && !errors.Is(tc.err, tc.target) {
				t.Fatalf("errors.Is(%v, %v) = false", tc.err, tc.target)
			}
		})
	}
}

func TestGenerationDoesNotDoubleWrap(t *testing.T) {
	t.Parallel()

	inner := Generation(errors.New("rate limited"))
	outer := Generation(inner)
	if !errors.Is(outer, ErrGeneration) {
		t.Fatalf("errors.Is(outer, ErrGeneration) = false")
	}
	if got := outer.Error(); got != GenerationErrorMessage+": "+inner.Error() {
		t.Fatalf("Error() = %q", got)
	}

	if err := Generation(nil); !errors.Is(err, ErrGeneration) {
		t.Fatalf("Generation(nil) = %v", err)
	}
}

func TestWrapRedis(t *testing.T) {
	t.Parallel()

	if WrapRedis(nil) != nil {
		t.Fatalf("WrapRedis(nil) != nil")
	}
	if err := WrapRedis(redis.Nil); StatusOf(err) != http.StatusNotFound || !errors.Is(err, ErrNotFound) {
		t.Fatalf("WrapRedis(redis.Nil) = %v", err)
	}
	err := WrapRedis(errors.New("connection refused"))
	if StatusOf(err) != http.StatusBadGateway || MessageOf(err) != RedisErrorMessage {
		t.Fatalf("WrapRedis(conn) = %v", err)
	}
}
