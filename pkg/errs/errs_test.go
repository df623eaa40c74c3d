package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKindAndReason(t *testing.T) {
	err := New(ErrNoSeatsAvailable, "vehicle %d is full on %s", 4, "2024-01-01")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, ErrNoSeatsAvailable))
	assert.False(t, errors.Is(err, ErrNoScheduledDeparture))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("book: %w", New(ErrTicketNotFound, "TKT000001"))

	assert.True(t, errors.Is(err, ErrTicketNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("disk on fire")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Conflict/RouteShape: A is after B", New(ErrRouteShape, "A is after B").Error())
	assert.Equal(t, "NotFound", ErrNotFound.Error())
	assert.Equal(t, "Invalid: InvalidDate", ErrInvalidDate.Error())
}
