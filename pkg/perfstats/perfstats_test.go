package perfstats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeAccumulator(t *testing.T) {
	a := TimeAccumulator{}
	require.Equal(t, time.Duration(0), a.Average())
	a.AddSample(10 * time.Millisecond)
	a.AddSample(30 * time.Millisecond)
	require.Equal(t, int64(2), a.Samples)
	require.Equal(t, 20*time.Millisecond, a.Average())
	require.Equal(t, 30*time.Millisecond, a.Max)
}

func TestTaskTimes(t *testing.T) {
	tt := NewTaskTimes()
	require.Equal(t, "", tt.Summary())

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tt.Add("b", time.Millisecond)
			tt.Add("a", 2*time.Millisecond)
		}()
	}
	wg.Wait()

	require.Equal(t, int64(50), tt.Get("a").Samples)
	require.Equal(t, 2*time.Millisecond, tt.Get("a").Average())
	require.Equal(t, int64(0), tt.Get("missing").Samples)
	require.Equal(t, "a: 50 x 2ms avg (2ms max), b: 50 x 1ms avg (1ms max)", tt.Summary())
}
