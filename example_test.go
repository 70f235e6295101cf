package sift_test

import (
	"context"
	"fmt"
	"time"

	"github.com/bjaus/sift"
)

func ExampleCache() {
	cache, _ := sift.New[string, int](100, sift.WithTTL[string, int](5*time.Minute))

	cache.Set("answer", 42)

	if v, ok := cache.Get("answer"); ok {
		fmt.Println(v)
	}
	// Output: 42
}

func ExampleCache_admission() {
	cache, _ := sift.New[string, string](1)

	cache.Set("first", "resident")

	// a cold key loses the admission contest
	_, _, admitted := cache.Set("second", "newcomer")
	fmt.Println("cold write admitted:", admitted)

	cache.Set("first", "resident")

	// lookups build standing for a retry
	cache.Get("second")
	cache.Get("second")
	_, _, admitted = cache.Set("second", "newcomer")
	fmt.Println("warm write admitted:", admitted)

	// Output:
	// cold write admitted: false
	// warm write admitted: true
}

func ExampleWithLoader() {
	ctx := context.Background()
	cache, _ := sift.New[string, string](100,
		sift.WithLoader(func(_ context.Context, key string) (string, error) {
			// simulate loading from a database
			return "loaded:" + key, nil
		}),
	)

	// first call loads and caches
	v1, _ := cache.GetOrLoad(ctx, "user-123")
	fmt.Println(v1)

	// second call returns the cached value
	v2, _ := cache.GetOrLoad(ctx, "user-123")
	fmt.Println(v2)

	// Output:
	// loaded:user-123
	// loaded:user-123
}

func ExampleOnEvict() {
	cache, _ := sift.New[string, int](1,
		sift.OnEvict(func(key string, value int) {
			fmt.Printf("evicted: %s=%d\n", key, value)
		}),
	)

	cache.Set("a", 1)
	cache.Get("b") // give b standing before it is written
	cache.Set("b", 2)

	// Output: evicted: a=1
}

func ExampleCache_Metrics() {
	cache, _ := sift.New[string, int](100, sift.WithMetrics[string, int]())

	cache.Set("a", 1)
	cache.Get("a") // hit
	cache.Get("b") // miss

	snap, _ := cache.Metrics()
	fmt.Printf("hits: %d, misses: %d, ratio: %.0f%%\n",
		snap.Hits, snap.Misses, snap.Ratio()*100)

	// Output: hits: 1, misses: 1, ratio: 50%
}
