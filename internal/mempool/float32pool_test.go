package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		input, expected int
	}{
		{-1, 1024},
		{0, 1024},
		{1, 1024},
		{1024, 1024},
		{1025, 2048},
		{2048, 2048},
		{3 * 320 * 320, 307200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sizeClass(tt.input), "sizeClass(%d)", tt.input)
	}
}

func TestGetFloat32(t *testing.T) {
	buf := GetFloat32(1500)
	assert.Len(t, buf, 1500)
	assert.Equal(t, 2048, cap(buf))
	PutFloat32(buf)

	assert.Empty(t, GetFloat32(0))
	assert.Empty(t, GetFloat32(-5))
}

func TestPutFloat32_Reuse(t *testing.T) {
	buf := GetFloat32(10)
	buf[0] = 42
	PutFloat32(buf)

	again := GetFloat32(20)
	assert.Len(t, again, 20)
	assert.Equal(t, 1024, cap(again))
}

func TestPutFloat32_Foreign(t *testing.T) {
	assert.NotPanics(t, func() {
		PutFloat32(nil)
		PutFloat32(make([]float32, 10))
		PutFloat32(make([]float32, 5, 1024))
	})
}

func TestFloat32Pool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for range 50 {
				buf := GetFloat32(n)
				for j := range buf {
					buf[j] = float32(j)
				}
				if len(buf) != n {
					t.Errorf("len %d, want %d", len(buf), n)
				}
				PutFloat32(buf)
			}
		}((i + 1) * 700)
	}
	wg.Wait()
}
