package grace_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sre-norns/waymark/pkg/grace"
	"github.com/sre-norns/waymark/pkg/links"
	"github.com/stretchr/testify/require"
)

func TestWorkgroup(t *testing.T) {
	errOdd := errors.New("odd")

	testCases := map[string]struct {
		capacity     int
		items        int
		expectErrors int
	}{
		"nothing":          {capacity: 2, items: 0},
		"single-worker":    {capacity: 1, items: 5, expectErrors: 2},
		"many-workers":     {capacity: 4, items: 9, expectErrors: 4},
		"zero-capacity":    {capacity: 0, items: 3, expectErrors: 1},
		"more-than-needed": {capacity: 16, items: 2, expectErrors: 1},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			var done atomic.Int32
			group := grace.NewWorkgroup(test.capacity)
			for i := 0; i < test.items; i++ {
				i := i
				group.Go(func() error {
					done.Add(1)
					if i%2 == 1 {
						return errOdd
					}
					return nil
				})
			}

			err := group.Wait()
			require.Equal(t, int32(test.items), done.Load())
			if test.expectErrors == 0 {
				require.NoError(t, err)
				return
			}

			var errSet links.ErrorSet
			require.ErrorAs(t, err, &errSet)
			require.Len(t, errSet, test.expectErrors)
			require.ErrorIs(t, err, errOdd)
		})
	}
}

func TestWorkgroup_CollectsErrorsOfAllWorkers(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	group := grace.NewWorkgroup(2)
	group.Go(func() error { return errFirst })
	group.Go(func() error { return errSecond })
	group.Go(func() error { return nil })

	err := group.Wait()
	require.ErrorIs(t, err, errFirst)
	require.ErrorIs(t, err, errSecond)
}
