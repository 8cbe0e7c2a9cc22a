package signal

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus(slog.Default())

	first := bus.Subscribe()
	second := bus.Subscribe()
	defer first.Cancel()
	defer second.Cancel()

	bus.Publish(AppendGroup())
	bus.Publish(AppendNode(3))

	for _, sub := range []*Subscription{first, second} {
		sig := <-sub.C
		assert.Equal(t, KindAppendGroup, sig.Kind)

		sig = <-sub.C
		assert.Equal(t, KindAppendNode, sig.Kind)
		assert.Equal(t, int32(3), sig.GroupID)
	}
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus(slog.Default())
	sub := bus.Subscribe()
	defer sub.Cancel()

	// Overrun the buffer without a reader; the excess is dropped.
	for i := 0; i < subscriberBuffer+16; i++ {
		bus.Publish(SetNodeByID(int32(i)))
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestBusCancelDetachesSubscriber(t *testing.T) {
	bus := NewBus(slog.Default())

	kept := bus.Subscribe()
	dropped := bus.Subscribe()
	dropped.Cancel()

	bus.Publish(CoreChanged())

	sig := <-kept.C
	require.Equal(t, KindCoreChanged, sig.Kind)

	select {
	case <-dropped.C:
		t.Fatal("cancelled subscriber received a signal")
	default:
	}
}

func TestSignalConstructors(t *testing.T) {
	assert.Equal(t, Signal{Kind: KindRuntimeValueChanged, Key: "CURRENT_NODE_ID"},
		RuntimeValueChanged("CURRENT_NODE_ID"))
	assert.Equal(t, Signal{Kind: KindRemoveGroupByID, GroupID: 4}, RemoveGroupByID(4))
	assert.Equal(t, Signal{Kind: KindEmpty}, Empty())
}
