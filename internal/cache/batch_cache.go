package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"mindgauge/internal/model"
)

const batchTTL = 24 * time.Hour

// BatchCache holds the pending next-question batch per assessment. It is what
// keeps repeated next-question reads identical between two submissions; a
// miss is recomputed deterministically from the ledger.
type BatchCache interface {
	SetNext(ctx context.Context, assessmentID string, batch []*model.Question) error
	// GetNext returns ok=false on a miss. An empty cached batch is a hit.
	GetNext(ctx context.Context, assessmentID string) (batch []*model.Question, ok bool, err error)
	Clear(ctx context.Context, assessmentID string) error
}

type batchCache struct {
	client *redis.Client
}

func NewBatchCache(client *redis.Client) BatchCache {
	return &batchCache{client: client}
}

func (c *batchCache) key(assessmentID string) string {
	return "assessment:" + assessmentID + ":next"
}

func (c *batchCache) SetNext(ctx context.Context, assessmentID string, batch []*model.Question) error {
	if batch == nil {
		batch = []*model.Question{}
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(assessmentID), data, batchTTL).Err()
}

func (c *batchCache) GetNext(ctx context.Context, assessmentID string) ([]*model.Question, bool, error) {
	data, err := c.client.Get(ctx, c.key(assessmentID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var batch []*model.Question
	if err := json.Unmarshal([]byte(data), &batch); err != nil {
		return nil, false, err
	}
	return batch, true, nil
}

func (c *batchCache) Clear(ctx context.Context, assessmentID string) error {
	return c.client.Del(ctx, c.key(assessmentID)).Err()
}
