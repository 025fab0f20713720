package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petties/models"
)

func cachedTestService(cache BookingCache) (*DefaultBookingService, *fakeBookingRepo) {
	bookings := newFakeBookingRepo()
	svc := testService(fullDayShifts(), bookings)
	svc.Cache = cache
	return svc, bookings
}

func cacheTestRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		OwnerID:  "owner-1",
		ClinicID: testClinic,
		Type:     models.BookingInClinic,
		Date:     testDate,
		Start:    810,
		PetServices: []models.PetServiceSelection{
			{PetID: "petA", ServiceIDs: []string{"svc-exam"}},
		},
	}
}

func TestGetBookingReadsThroughCache(t *testing.T) {
	cache := newFakeBookingCache()
	svc, bookings := cachedTestService(cache)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, cacheTestRequest())
	require.NoError(t, err)

	// Creation primes the cache; later reads never touch the repository.
	_, ok := cache.entries[b.ID]
	require.True(t, ok)

	delete(bookings.bookings, b.ID)
	got, err := svc.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, 1, cache.hits)

	// Unknown IDs still miss end to end.
	_, err = svc.GetBooking(ctx, "nope")
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestGetBookingMissRepopulatesCache(t *testing.T) {
	cache := newFakeBookingCache()
	svc, _ := cachedTestService(cache)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, cacheTestRequest())
	require.NoError(t, err)
	cache.Invalidate(ctx, b.ID)

	got, err := svc.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, ok := cache.entries[b.ID]
	assert.True(t, ok, "miss should refill the cache")
}

func TestCacheRefreshedOnTransition(t *testing.T) {
	cache := newFakeBookingCache()
	svc, _ := cachedTestService(cache)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, cacheTestRequest())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID)
	require.NoError(t, err)

	cached, ok := cache.Get(ctx, b.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusCancelled, cached.Status)
}
