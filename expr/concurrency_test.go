package expr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentReaders runs many readers over one buffer with no
// synchronization beyond the WaitGroup. Run with -race.
func TestConcurrentReaders(t *testing.T) {
	b := NewBuilder(0)
	e := sumXTwoY(t, b)
	want := e.View().String()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				v := e.View()
				assert.Equal(t, want, v.String())
				assert.Equal(t, v.Flags(), DeriveFlags(v))
				prod := v.Operands().At(1)
				n, ok := prod.Child(0).Int64()
				assert.True(t, ok)
				assert.Equal(t, int64(2), n)
				assert.Equal(t, "y", prod.Child(1).Name())
			}
		}()
	}
	wg.Wait()
}

// TestConcurrentBuilders checks that separate builders sharing input views
// produce identical buffers.
func TestConcurrentBuilders(t *testing.T) {
	shared := sumXTwoY(t, new(Builder))
	out := make([]Expr, 8)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := NewBuilder(64)
			e, err := b.Product(shared.View(), b.SmallInt(int32(i)).View())
			if assert.NoError(t, err) {
				out[i] = e
			}
		}()
	}
	wg.Wait()

	for i, e := range out {
		require.False(t, e.IsZero())
		require.True(t, e.View().Child(0).Equal(shared.View()))
		n, ok := e.View().Child(1).Int64()
		require.True(t, ok)
		require.Equal(t, int64(i), n)
	}
}
