package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// RedisErrorMessage describes Redis related failures.
const RedisErrorMessage = "redis operation failed"

// WrapRedis maps Redis errors to AppError with appropriate status codes.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return New(ErrNotFound, http.StatusNotFound, NotFoundMessage)
	}

	return New(err, http.StatusBadGateway, RedisErrorMessage)
}
