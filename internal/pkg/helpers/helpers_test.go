package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(20), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(0, 500)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(41, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	empty := NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, 2*time.Hour, DurationOr("jwt.ttl", "2h", time.Minute))
	assert.Equal(t, time.Minute, DurationOr("jwt.ttl", "soon", time.Minute))
	assert.Equal(t, time.Minute, DurationOr("jwt.ttl", "", time.Minute))
	assert.Equal(t, time.Minute, DurationOr("jwt.ttl", "-5s", time.Minute))
}
