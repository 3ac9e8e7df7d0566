package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const propertyCacheTTL = 10 * time.Minute

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheProperty stores a property record for fast reads
func CacheProperty(ctx context.Context, property *models.Property) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("property:%d", property.ID)
	return RedisClient.Set(ctx, key, data, propertyCacheTTL).Err()
}

// GetCachedProperty retrieves a cached property, (nil, nil) on miss
func GetCachedProperty(ctx context.Context, propertyID uint) (*models.Property, error) {
	if RedisClient == nil {
		return nil, nil
	}
	key := fmt.Sprintf("property:%d", propertyID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var property models.Property
	if err := json.Unmarshal([]byte(data), &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// InvalidateProperty drops a property from the cache after a write
func InvalidateProperty(ctx context.Context, propertyID uint) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("property:%d", propertyID)
	return RedisClient.Del(ctx, key).Err()
}

// MarkAffiliateClick records that an IP clicked a partner link and reports
// whether this was the first click inside the de-duplication window.
func MarkAffiliateClick(ctx context.Context, partnerID uint, ip string, window time.Duration) (bool, error) {
	if RedisClient == nil {
		return false, redis.ErrClosed
	}
	key := fmt.Sprintf("affiliate:click:%d:%s", partnerID, ip)
	return RedisClient.SetNX(ctx, key, time.Now().Unix(), window).Result()
}
