package highscore_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/mathquiz/internal/highscore"
	"github.com/playperu/mathquiz/internal/mathquiz"
)

// redisClient connects to REDIS_URL, skipping the test when it is unset.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parsing REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("pinging redis: %v", err)
	}
	return rdb
}

func TestRedisKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := redisClient(t)
	kv := highscore.NewRedisKV(rdb)
	key := "mathquiz-test:" + t.Name()
	t.Cleanup(func() { rdb.Del(context.Background(), key) })
	rdb.Del(ctx, key)

	if _, err := kv.Get(ctx, key); !errors.Is(err, highscore.ErrNotFound) {
		t.Fatalf("Get missing key err = %v, want ErrNotFound", err)
	}
	if err := kv.Delete(ctx, key); !errors.Is(err, highscore.ErrNotFound) {
		t.Fatalf("Delete missing key err = %v, want ErrNotFound", err)
	}

	if err := kv.Put(ctx, key, []byte(`[1]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Put(ctx, key, []byte(`[2]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := kv.Get(ctx, key)
	if err != nil || string(got) != `[2]` {
		t.Fatalf("Get = %s, %v", got, err)
	}

	if err := kv.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, key); !errors.Is(err, highscore.ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestStoreOverRedis(t *testing.T) {
	ctx := context.Background()
	rdb := redisClient(t)
	t.Cleanup(func() { rdb.Del(context.Background(), highscore.Key) })
	rdb.Del(ctx, highscore.Key)

	s := highscore.NewStore(highscore.NewRedisKV(rdb), slog.Default())

	ok, err := s.RecordIfBest(ctx, entry(40, mathquiz.LevelHard, mathquiz.ModeSurvival))
	if err != nil || !ok {
		t.Fatalf("RecordIfBest = %v, %v", ok, err)
	}
	got, err := s.LoadAll(ctx)
	if err != nil || len(got) != 1 || got[0].Score != 40 {
		t.Fatalf("LoadAll = %+v, %v", got, err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll on empty: %v", err)
	}
	got, err = s.LoadAll(ctx)
	if err != nil || len(got) != 0 {
		t.Errorf("after clear: %+v, %v", got, err)
	}
}
