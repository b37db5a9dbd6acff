package lib

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestOrderTokenCache(t *testing.T) {
	rd, mock := redismock.NewClientMock()
	NewRedisClient(rd)

	token := "a3c5b8e0-7c51-4f4a-9a43-1c91f2f6f001"
	mock.ExpectSetEx(orderTokenKey(token), "intent-1", 15*time.Minute).SetVal("OK")
	CacheOrderToken(token, "intent-1", 15*time.Minute)

	mock.ExpectGet(orderTokenKey(token)).SetVal("intent-1")
	assert.Equal(t, "intent-1", LookupOrderToken(token))

	mock.ExpectGet(orderTokenKey("missing")).RedisNil()
	assert.Equal(t, "", LookupOrderToken("missing"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
