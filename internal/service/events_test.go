package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickySubscriber struct{}

func (panickySubscriber) Name() string { return "panicky" }

func (panickySubscriber) HandleListingChanged(context.Context, ListingChanged) {
	panic("subscriber bug")
}

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	first := &recordingSubscriber{}
	second := &recordingSubscriber{}
	dispatcher := NewDispatcher(testLogger(), first, second)

	event := ListingChanged{ListingID: 1, ListingKey: "ELabc", DetailPath: "/listing/1/"}
	dispatcher.Publish(event)
	dispatcher.Wait()

	require.Len(t, first.recorded(), 1)
	require.Len(t, second.recorded(), 1)
	assert.Equal(t, event, first.recorded()[0])
}

func TestDispatcherSurvivesPanickingSubscriber(t *testing.T) {
	recorder := &recordingSubscriber{}
	dispatcher := NewDispatcher(testLogger(), panickySubscriber{}, recorder)

	dispatcher.Publish(ListingChanged{ListingID: 2, ListingKey: "ELdef"})
	dispatcher.Wait()

	assert.Len(t, recorder.recorded(), 1, "healthy subscribers still get the event")
}

type cacheSpy struct {
	invalidated []string
	err         error
}

func (c *cacheSpy) InvalidateListing(_ context.Context, listingKey string) error {
	c.invalidated = append(c.invalidated, listingKey)
	return c.err
}

func TestCacheInvalidator(t *testing.T) {
	spy := &cacheSpy{}
	invalidator := NewCacheInvalidator(spy, testLogger())

	invalidator.HandleListingChanged(context.Background(), ListingChanged{ListingKey: "ELabc"})
	assert.Equal(t, []string{"ELabc"}, spy.invalidated)

	t.Run("errors are swallowed", func(t *testing.T) {
		spy := &cacheSpy{err: assert.AnError}
		invalidator := NewCacheInvalidator(spy, testLogger())
		invalidator.HandleListingChanged(context.Background(), ListingChanged{ListingKey: "ELdef"})
		assert.Equal(t, []string{"ELdef"}, spy.invalidated)
	})
}
