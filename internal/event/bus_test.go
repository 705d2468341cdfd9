package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"mode.minor.activated", "mode.minor.activated", true},
		{"mode.minor.activated", "mode.*.activated", true},
		{"mode.minor.activated", "mode.**", true},
		{"mode.minor.activated", "**", true},
		{"mode.minor.activated", "mode.*", false},
		{"mode.minor.activated", "journal.**", false},
		{"mode", "mode.**", true},
		{"journal.transaction.applied", "**.applied", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.topic.Matches(tt.pattern))
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	assert.True(t, TopicConfigReloaded.IsValid())
	assert.False(t, Topic("").IsValid())
	assert.False(t, Topic("a..b").IsValid())
	assert.False(t, Topic(".a").IsValid())
}

func TestPublishSubscribe(t *testing.T) {
	b := NewBus()

	var got []Event
	unsubscribe := b.Subscribe("mode.**", func(e Event) {
		got = append(got, e)
	})

	b.Publish(TopicMinorActivated, "test", "Grid")
	b.Publish(TopicTransactionApplied, "test", "ignored")
	unsubscribe()
	unsubscribe()
	b.Publish(TopicMajorActivated, "test", "Sketch")

	require.Len(t, got, 1)
	assert.Equal(t, TopicMinorActivated, got[0].Topic)
	assert.Equal(t, "Grid", got[0].Payload)
	assert.Equal(t, "test", got[0].Source)
	assert.NotEmpty(t, got[0].ID)

	stats := b.Stats()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(1), stats.Delivered)
	assert.Equal(t, 0, stats.Subscriptions)
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := NewBus()

	var recovered any
	b.PanicHandler = func(_ Event, r any) { recovered = r }

	after := false
	b.Subscribe("**", func(Event) { panic("handler failed") })
	b.Subscribe("**", func(Event) { after = true })

	assert.NotPanics(t, func() { b.Publish(TopicConfigReloaded, "test", nil) })
	assert.True(t, after)
	assert.Equal(t, "handler failed", recovered)
	assert.Equal(t, uint64(1), b.Stats().HandlerPanics)
}

func TestSubscribeFromHandler(t *testing.T) {
	b := NewBus()

	calls := 0
	b.Subscribe("**", func(Event) {
		b.Subscribe("**", func(Event) { calls++ })
	})

	b.Publish(TopicConfigReloaded, "test", nil)
	assert.Equal(t, 0, calls)

	b.Publish(TopicConfigReloaded, "test", nil)
	assert.Equal(t, 1, calls)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Publish(TopicConfigReloaded, "x", nil) })
}
