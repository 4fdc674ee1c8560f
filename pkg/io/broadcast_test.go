package io

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

func counterSource(limit int) Reader[int] {
	var mu sync.Mutex
	next := 0
	return ReaderFunc[int](func() (int, func(), error) {
		mu.Lock()
		defer mu.Unlock()
		if next >= limit {
			return 0, func() {}, io.EOF
		}
		next++
		return next, func() {}, nil
	})
}

func TestBroadcasterSingleReader(t *testing.T) {
	b := NewBroadcaster(counterSource(5), nil)
	r := b.NewReader(func(v int) int { return v })

	for expected := 1; expected <= 5; expected++ {
		v, release, err := r.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		release()
		if v != expected {
			t.Fatalf("expected %d, got %d", expected, v)
		}
	}

	if _, _, err := r.Read(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestBroadcasterSharesData(t *testing.T) {
	const n = 4
	const total = 20
	b := NewBroadcaster(counterSource(total), &BroadcasterConfig{
		BufferSize:   64,
		PollDuration: time.Millisecond,
	})

	readers := make([]Reader[int], n)
	for i := range readers {
		readers[i] = b.NewReader(func(v int) int { return v })
	}

	results := make([][]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range readers {
		go func(i int) {
			defer wg.Done()
			for {
				v, _, err := readers[i].Read()
				if err != nil {
					return
				}
				results[i] = append(results[i], v)
			}
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		last := 0
		for _, v := range res {
			if v <= last {
				t.Fatalf("reader %d: values must strictly increase, got %v", i, res)
			}
			last = v
		}
		if last != total {
			t.Errorf("reader %d: expected to see the last value %d, got %d", i, total, last)
		}
	}
}

func TestBroadcasterCopy(t *testing.T) {
	b := NewBroadcaster(counterSource(1), nil)
	r := b.NewReader(func(v int) int { return v * 10 })

	v, _, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != 10 {
		t.Errorf("expected copied value 10, got %d", v)
	}
}

func TestBroadcasterReplaceSource(t *testing.T) {
	b := NewBroadcaster(counterSource(0), nil)
	if err := b.ReplaceSource(nil); !errors.Is(err, errEmptySource) {
		t.Errorf("expected errEmptySource, got %v", err)
	}

	b.ReplaceSource(counterSource(3))
	r := b.NewReader(func(v int) int { return v })
	if v, _, err := r.Read(); err != nil || v != 1 {
		t.Errorf("expected 1 from the new source, got %d, %v", v, err)
	}
	if b.Source() == nil {
		t.Error("expected a source")
	}
}
