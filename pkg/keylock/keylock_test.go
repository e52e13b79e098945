package keylock

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAcquireSerializesSameKey(t *testing.T) {
	kl := New()

	release, err := kl.Acquire(context.Background(), "item/1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := kl.Acquire(ctx, "item/1"); err == nil {
		t.Fatal("expected second acquire of held key to time out")
	}

	release()

	release2, err := kl.Acquire(context.Background(), "item/1")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}

func TestDistinctKeysDoNotContend(t *testing.T) {
	kl := New()

	release, err := kl.Acquire(context.Background(), "item/1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	release2, err := kl.Acquire(ctx, "item/2")
	if err != nil {
		t.Fatalf("distinct key blocked: %v", err)
	}
	release2()
}

func TestAcquireAllOverlappingSets(t *testing.T) {
	kl := New()
	keys1 := []string{"item/3", "item/1", "item/2"}
	keys2 := []string{"item/2", "item/3", "item/4"}

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := kl.AcquireAll(context.Background(), keys1)
			if err != nil {
				t.Errorf("acquire all: %v", err)
				return
			}
			counter++
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := kl.AcquireAll(context.Background(), keys2)
			if err != nil {
				t.Errorf("acquire all: %v", err)
				return
			}
			counter++
			release()
		}()
	}
	wg.Wait()
}

func TestReleaseIsIdempotent(t *testing.T) {
	kl := New()
	release, err := kl.Acquire(context.Background(), "item/1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	release() // second call must be a no-op

	release2, err := kl.Acquire(context.Background(), "item/1")
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	release2()
}
