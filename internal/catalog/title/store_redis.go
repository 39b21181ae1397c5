// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kritika/internal/platform/constants"
)

const (
	// ratingTTL bounds staleness if an invalidation is ever lost.
	ratingTTL = 15 * time.Minute

	// ratingNone encodes "no reviews yet" so the null aggregate is cacheable too.
	ratingNone = "none"
)

// RedisRatingCache implements [RatingCache] on Redis.
type RedisRatingCache struct {
	client *redis.Client
}

func NewRedisRatingCache(client *redis.Client) *RedisRatingCache {
	return &RedisRatingCache{client: client}
}

func (cache *RedisRatingCache) GetRating(context context.Context, titleID int64) (*float64, bool, error) {
	value, err := cache.client.Get(context, ratingKey(titleID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if value == ratingNone {
		return nil, true, nil
	}

	rating, err := strconv.ParseFloat(value, 64)
	if err != nil {
		// Corrupt entry, treat as a miss so it gets rewritten.
		return nil, false, nil
	}
	return &rating, true, nil
}

func (cache *RedisRatingCache) SetRating(context context.Context, titleID int64, rating *float64) error {
	value := ratingNone
	if rating != nil {
		value = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	return cache.client.Set(context, ratingKey(titleID), value, ratingTTL).Err()
}

func (cache *RedisRatingCache) InvalidateRating(context context.Context, titleID int64) error {
	return cache.client.Del(context, ratingKey(titleID)).Err()
}

func ratingKey(titleID int64) string {
	return constants.RedisPrefixTitleRating + strconv.FormatInt(titleID, 10)
}
