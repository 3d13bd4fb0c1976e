package userlock

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

func exerciseMutualExclusion(t *testing.T, l Locker, key string) {
	t.Helper()
	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), key)
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("mutual exclusion: want=1 got=%d holders at once", maxSeen)
	}
}

func TestLocalLockerMutualExclusion(t *testing.T) {
	exerciseMutualExclusion(t, NewLocal(), "user-a")
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "user-a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Lock on held key: want=DeadlineExceeded got=%v", err)
	}

	other, err := l.Lock(context.Background(), "user-b")
	if err != nil {
		t.Fatalf("Lock on other key: %v", err)
	}
	other()
}

func TestLocalLockerReleaseIsIdempotent(t *testing.T) {
	l := NewLocal().(*localLocker)
	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	unlock()
	unlock()
	if len(l.locks) != 0 {
		t.Fatalf("entries leaked: %d", len(l.locks))
	}
}

func redisLockerForTest(t *testing.T, ttl time.Duration) Locker {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	l, err := NewRedis(log, rdb, ttl)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	return l
}

func TestRedisLocker(t *testing.T) {
	l := redisLockerForTest(t, 5*time.Second)
	exerciseMutualExclusion(t, l, "test-"+uuid.NewString())
}

func TestRedisLockerRenewsLeaseWhileHeld(t *testing.T) {
	l := redisLockerForTest(t, 300*time.Millisecond)
	key := "test-" + uuid.NewString()

	unlock, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	// hold well past the ttl
	time.Sleep(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, key); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Lock while held past ttl: want=DeadlineExceeded got=%v", err)
	}
	unlock()

	again, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	again()
}
