package clock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLamport_Tick(t *testing.T) {
	c := New(0)

	tests := []struct {
		name string
		want int64
	}{
		{"first tick", 1},
		{"second tick", 2},
		{"third tick", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Tick())
			assert.Equal(t, tt.want, c.Now())
		})
	}
}

func TestLamport_Resume(t *testing.T) {
	assert.Equal(t, int64(11), New(10).Tick())
	assert.Equal(t, int64(1), New(-5).Tick())
}

func TestLamport_Observe(t *testing.T) {
	tests := []struct {
		name   string
		start  int64
		remote int64
		want   int64
	}{
		{name: "remote ahead", start: 5, remote: 10, want: 11},
		{name: "remote behind", start: 10, remote: 5, want: 11},
		{name: "remote equal", start: 7, remote: 7, want: 8},
		{name: "unix ms remote", start: 3, remote: 1_700_000_000_000, want: 1_700_000_000_001},
		{name: "zero remote", start: 0, remote: 0, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.start)
			assert.Equal(t, tt.want, c.Observe(tt.remote))
			assert.Equal(t, tt.want, c.Now())
		})
	}
}

func TestLamport_Concurrent(t *testing.T) {
	c := New(0)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Tick()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), c.Now())
}
