package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

func orderTokenKey(token string) string {
	return fmt.Sprintf("intents:token:%s", token)
}

// CacheOrderToken maps the gateway-facing order token to the internal intent
// id for the lifetime of the lock. Failures are non-fatal; the webhook falls
// back to a DB lookup.
func CacheOrderToken(token string, intentID string, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.SetEx(context.Background(), orderTokenKey(token), intentID, ttl).Err(); err != nil {
		log.Printf("Error caching order token [%s]: %s\n", token, err.Error())
	}
}

// LookupOrderToken returns the cached intent id for the token, or empty when
// the cache has no entry.
func LookupOrderToken(token string) string {
	rd := GetRedisClient()
	if rd == nil {
		return ""
	}
	val, err := rd.Get(context.Background(), orderTokenKey(token)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Error reading order token [%s] from cache: %s\n", token, err.Error())
		}
		return ""
	}
	return val
}
