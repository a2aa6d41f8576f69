package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int64
		want     int
	}{
		{"page zero clamps to first", 0, 10, 25, 1},
		{"negative page clamps to first", -3, 10, 25, 1},
		{"past last page clamps to last", 10000, 10, 25, 3},
		{"exact last page", 3, 10, 30, 3},
		{"empty result has one page", 5, 12, 0, 1},
		{"in range untouched", 2, 5, 11, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.pageSize, tt.total))
		})
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated[int](nil, 25, 3, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, Filter{Page: 3, PageSize: 10}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 10}.Offset())
}

func TestDomainError_Is(t *testing.T) {
	t.Run("matches by code", func(t *testing.T) {
		err := NewDomainError("NOT_FOUND", "Product not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", NewDomainError("INSUFFICIENT_STOCK", "Only 2 left"))
		assert.True(t, errors.Is(err, ErrInsufficientStock))
		assert.Equal(t, "INSUFFICIENT_STOCK", CodeOf(err))
	})

	t.Run("keeps cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := WrapDomainError("INVALID_STATE", "upload failed", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "upload failed: disk full", err.Error())
	})

	t.Run("foreign error has no code", func(t *testing.T) {
		assert.Equal(t, "", CodeOf(errors.New("boom")))
	})
}
