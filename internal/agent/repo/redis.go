package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/agent/model"
	errx "github.com/mkebiclioglu/agent-as-inbound-rep/internal/core/error"
	logx "github.com/mkebiclioglu/agent-as-inbound-rep/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisConversationRepository stores each history as a Redis list of JSON turns.
type RedisConversationRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisConversationRepository(rdb redis.Cmdable, ttl time.Duration) *RedisConversationRepository {
	return &RedisConversationRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisConversationRepository) conversationKey(leadID string) string {
	return fmt.Sprintf("conversation:%s:turns", leadID)
}

// Append pushes both turns inside MULTI/EXEC so readers never see half an exchange.
func (r *RedisConversationRepository) Append(ctx context.Context, leadID string, customer, agent model.Turn) (int, error) {
	rows := make([]any, 0, 2)
	for _, t := range []model.Turn{customer, agent} {
		b, err := json.Marshal(t)
		if err != nil {
			logx.Error().Err(err).Str("leadID", leadID).Msg("failed to marshal turn")
			return 0, fmt.Errorf("marshal turn: %w", err)
		}
		rows = append(rows, b)
	}
	key := r.conversationKey(leadID)

	var push *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		push = pipe.RPush(ctx, key, rows...)
		// extend TTL on touch
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push turns to redis")
		return 0, errx.WrapRedis(err)
	}
	return int(push.Val()), nil
}

func (r *RedisConversationRepository) Read(ctx context.Context, leadID string, limit int) ([]model.Turn, error) {
	if limit <= 0 {
		return []model.Turn{}, nil
	}
	return r.load(ctx, leadID, -int64(limit))
}

func (r *RedisConversationRepository) ReadAll(ctx context.Context, leadID string) ([]model.Turn, error) {
	turns, err := r.load(ctx, leadID, 0)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, errx.NotFound(HistoryNotFoundMessage)
	}
	return turns, nil
}

func (r *RedisConversationRepository) load(ctx context.Context, leadID string, start int64) ([]model.Turn, error) {
	key := r.conversationKey(leadID)

	rows, err := r.rdb.LRange(ctx, key, start, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.Turn{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history from redis")
		return nil, errx.WrapRedis(err)
	}

	turns := make([]model.Turn, 0, len(rows))
	for i, s := range rows {
		var t model.Turn
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			logx.Error().Err(err).Str("leadID", leadID).Int("index", i).Msg("failed to unmarshal turn")
			return nil, fmt.Errorf("unmarshal turn at index %d: %w", i, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (r *RedisConversationRepository) Clear(ctx context.Context, leadID string) error {
	key := r.conversationKey(leadID)
	n, err := r.rdb.Del(ctx, key).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete conversation history from redis")
		return errx.WrapRedis(err)
	}
	if n == 0 {
		return errx.NotFound(HistoryNotFoundMessage)
	}
	return nil
}

var _ model.DialogueStore = (*RedisConversationRepository)(nil)
