package sift

import (
	"strconv"
	"testing"
)

func BenchmarkCache_Get(b *testing.B) {
	cache, err := New[string, int](1000)
	if err != nil {
		b.Fatal(err)
	}

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		cache.Set(keys[i], i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(keys[i%100])
	}
}

func BenchmarkCache_Set(b *testing.B) {
	cache, err := New[string, int](b.N + 1)
	if err != nil {
		b.Fatal(err)
	}

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Set(keys[i], i)
	}
}

func BenchmarkCache_SetWithEviction(b *testing.B) {
	cache, err := New[string, int](100)
	if err != nil {
		b.Fatal(err)
	}

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Set(keys[i], i)
	}
}

func BenchmarkCache_Parallel(b *testing.B) {
	cache, err := New[string, int](1000)
	if err != nil {
		b.Fatal(err)
	}

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		cache.Set(keys[i], i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				cache.Get(keys[i%100])
			} else {
				cache.Set(keys[i%100], i)
			}
			i++
		}
	})
}

func BenchmarkTinyLFU_Increment(b *testing.B) {
	lfu, err := NewTinyLFU(MaxWindowSize)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lfu.Increment(uint64(i % 1000))
	}
}

func BenchmarkTinyLFU_Estimate(b *testing.B) {
	lfu, err := NewTinyLFU(MaxWindowSize)
	if err != nil {
		b.Fatal(err)
	}
	for i := range 1000 {
		lfu.Increment(uint64(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lfu.Estimate(uint64(i % 1000))
	}
}
