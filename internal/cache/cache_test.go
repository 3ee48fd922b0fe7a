package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestCount_CachesUntilInvalidated(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int64, error) {
		calls++
		return 3, nil
	}

	n, err := Count(ctx, FollowerCountKey(1), fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = Count(ctx, FollowerCountKey(1), fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("author:1:followers:count"))

	InvalidateFollowCounts(ctx, 2, 1)
	assert.False(t, mr.Exists("author:1:followers:count"))

	_, err = Count(ctx, FollowerCountKey(1), fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCount_FetchError(t *testing.T) {
	setupMiniredis(t)

	_, err := Count(context.Background(), LikeCountKey(9), func(context.Context) (int64, error) {
		return 0, errors.New("db down")
	})
	assert.Error(t, err)
}

func TestAside_NoClient(t *testing.T) {
	SetClient(nil)

	var v int64
	err := Aside(context.Background(), "k", &v, CountTTL, func() error {
		v = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestAside_RedisDownFallsBackToFetch(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	mr.Close()

	n, err := Count(context.Background(), CommentCountKey(4), func(context.Context) (int64, error) {
		return 8, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
}

func TestKeys(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "author:5:followings:count", FollowingCountKey(5))
	assert.Equal(t, "story:6:likes:count", LikeCountKey(6))
	assert.Equal(t, "story:6:comments:count", CommentCountKey(6))
}

func TestInitRedis_EmptyAddrDisablesCache(t *testing.T) {
	assert.Nil(t, InitRedis(""))
	assert.Nil(t, GetClient())
}
