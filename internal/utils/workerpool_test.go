package utils

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelForEach(t *testing.T) {
	t.Parallel()

	t.Run("process all items", func(t *testing.T) {
		ctx := context.Background()
		items := []int{1, 2, 3, 4, 5}
		results := make([]int, 5)
		var mu sync.Mutex

		errors := ParallelForEach(ctx, items, 3, func(ctx context.Context, item int) error {
			mu.Lock()
			results[item-1] = item * 2
			mu.Unlock()
			return nil
		})

		assert.Len(t, errors, 5)
		for _, err := range errors {
			assert.NoError(t, err)
		}

		for i, val := range results {
			assert.Equal(t, (i+1)*2, val)
		}
	})

	t.Run("with errors", func(t *testing.T) {
		ctx := context.Background()
		items := []int{1, 2, 3}

		errors := ParallelForEach(ctx, items, 2, func(ctx context.Context, item int) error {
			if item == 2 {
				return errors.New("error on 2")
			}
			return nil
		})

		assert.Len(t, errors, 3)
		assert.NoError(t, errors[0])
		assert.Error(t, errors[1])
		assert.NoError(t, errors[2])
	})

	t.Run("workers count adjustment", func(t *testing.T) {
		ctx := context.Background()
		items := []int{1, 2, 3}
		results := make([]int, 3)
		var mu sync.Mutex

		// More workers than items
		errors := ParallelForEach(ctx, items, 10, func(ctx context.Context, item int) error {
			mu.Lock()
			results[item-1] = item
			mu.Unlock()
			return nil
		})

		assert.Len(t, errors, 3)
		assert.NoError(t, errors[0])
		assert.NoError(t, errors[1])
		assert.NoError(t, errors[2])
	})

	t.Run("zero workers defaults to 1", func(t *testing.T) {
		ctx := context.Background()
		items := []int{1, 2}
		results := make([]int, 2)
		var mu sync.Mutex

		errors := ParallelForEach(ctx, items, 0, func(ctx context.Context, item int) error {
			mu.Lock()
			results[item-1] = item
			mu.Unlock()
			return nil
		})

		assert.Len(t, errors, 2)
		assert.NoError(t, errors[0])
		assert.NoError(t, errors[1])
	})
}
