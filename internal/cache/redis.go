package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/docyard/docyard/internal/model"
	redis "github.com/redis/go-redis/v9"
)

const documentTTL = time.Hour

func documentKey(id string) string {
	return "document:" + id
}

var _ DocumentCache = (*RedisDocumentCache)(nil)

type RedisDocumentCache struct {
	client *redis.Client
}

func NewRedisDocumentCache(addr string) *RedisDocumentCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisDocumentCache{client: client}
}

func (r *RedisDocumentCache) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	res := r.client.Get(ctx, documentKey(id))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	doc := &model.Document{}
	err = json.Unmarshal(buf, doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *RedisDocumentCache) SetDocument(ctx context.Context, doc *model.Document) error {
	marshal, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, documentKey(doc.ID), marshal, documentTTL).Err()
}

func (r *RedisDocumentCache) Invalidate(ctx context.Context, id string) error {
	return r.client.Del(ctx, documentKey(id)).Err()
}
