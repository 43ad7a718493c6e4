package ratelimiter

import (
	"authfront/internal/core/domain/logging"
	ratelimiter "authfront/internal/core/domain/rate_limiter"
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

func TestWindowKey(t *testing.T) {
	require.Equal(t, "rate-limit::k::h15", windowKey("k", ratelimiter.Hour, NOW))
	require.Equal(t, "rate-limit::k::m30", windowKey("k", ratelimiter.Minute, NOW))
}

type testSuite struct {
	suite.Suite
	client  *redis.Client
	limiter *Redis
}

func (suite *testSuite) SetupSuite() {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		suite.T().Skip("TEST_REDIS_URL is not set.")
	}
	opt, err := redis.ParseURL(redisURL)
	suite.Require().Nil(err)
	suite.client = redis.NewClient(opt)
	suite.limiter = NewRedis(suite.client, logging.NewFakeLogger(), func() time.Time { return NOW })
}

func (suite *testSuite) TearDownTest() {
	suite.client.FlushDB(context.Background())
}

func (suite *testSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Close()
	}
}

func TestRedisRateLimiter(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestLimitIsEnforcedPerKey() {
	ctx := context.Background()
	limit := ratelimiter.Limit{Value: 3, Interval: ratelimiter.Hour}

	for i := 0; i < 3; i++ {
		suite.Require().True(suite.limiter.CheckLimit(ctx, "a@example.com", limit).IsAllowed)
	}
	suite.Require().False(suite.limiter.CheckLimit(ctx, "a@example.com", limit).IsAllowed)
	suite.Require().True(suite.limiter.CheckLimit(ctx, "b@example.com", limit).IsAllowed)
}

func (suite *testSuite) TestFailOpenWhenRedisIsDown() {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	log := logging.NewFakeLogger()
	limiter := NewRedis(client, log, func() time.Time { return NOW })

	result := limiter.CheckLimit(context.Background(), "k", ratelimiter.Limit{Value: 1, Interval: ratelimiter.Minute})

	suite.Require().True(result.IsAllowed)
	suite.Require().Equal(1, log.CountByLevel(logging.ERROR))
}
