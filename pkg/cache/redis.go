package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"learnify/internal/models"
)

const (
	quizTTL        = 24 * time.Hour
	leaderboardTTL = 24 * time.Hour
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

// NewRedisCacheWithClient is used by tests running against miniredis.
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetQuiz(qz *models.Quiz) error {
	data, err := json.Marshal(qz)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, quizKey(qz.ID), data, quizTTL).Err()
}

func (c *RedisCache) GetQuiz(id uint) (*models.Quiz, error) {
	data, err := c.client.Get(c.ctx, quizKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	var qz models.Quiz
	err = json.Unmarshal(data, &qz)
	return &qz, err
}

// InvalidateQuiz drops the cached quiz and its leaderboard. Called after
// every authoring mutation so students never see a stale answer key.
func (c *RedisCache) InvalidateQuiz(id uint) error {
	return c.client.Del(c.ctx, quizKey(id), leaderboardKey(id)).Err()
}

// SetLeaderboard replaces the quiz's scoreboard with a sorted set keyed by
// student id.
func (c *RedisCache) SetLeaderboard(quizID uint, entries []models.LeaderboardEntry) error {
	key := leaderboardKey(quizID)

	pipe := c.client.Pipeline()
	pipe.Del(c.ctx, key)
	for _, entry := range entries {
		pipe.ZAdd(c.ctx, key, &redis.Z{
			Score:  float64(entry.Score),
			Member: member(entry),
		})
	}
	pipe.Expire(c.ctx, key, leaderboardTTL)

	_, err := pipe.Exec(c.ctx)
	return err
}

func (c *RedisCache) GetLeaderboard(quizID uint) ([]models.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(c.ctx, leaderboardKey(quizID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for _, z := range results {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		var entry models.LeaderboardEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entry.Score = int(z.Score)
		entries = append(entries, entry)
	}
	return entries, nil
}

func quizKey(id uint) string {
	return fmt.Sprintf("quiz:%d", id)
}

func leaderboardKey(quizID uint) string {
	return fmt.Sprintf("leaderboard:%d", quizID)
}

// member serializes identity fields only; the score lives in the zset.
func member(entry models.LeaderboardEntry) string {
	entry.Score = 0
	data, _ := json.Marshal(entry)
	return string(data)
}
