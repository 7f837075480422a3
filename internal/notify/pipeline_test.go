package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

type fakeLogger struct{ lines []string }

func (f *fakeLogger) Logf(format string, args ...any) {
	f.lines = append(f.lines, format)
}

func TestDispatchOrderingPerKeyThenGlobal(t *testing.T) {
	p := notify.New(nil, nil)
	var order []string
	p.SubscribeKey("a", func(ev notify.Event) { order = append(order, "key:"+ev.Key) })
	p.Subscribe(func(ev notify.Event) { order = append(order, "global:"+ev.Key) })

	p.Dispatch([]notify.Event{{Key: "a", New: flagtype.Num(1), NewPresent: true}})

	assert.Equal(t, []string{"key:a", "global:a"}, order)
}

func TestDeregisterIsIdempotent(t *testing.T) {
	p := notify.New(nil, nil)
	var calls int
	dereg := p.Subscribe(func(ev notify.Event) { calls++ })

	p.Dispatch([]notify.Event{{Key: "x"}})
	dereg()
	dereg()
	p.Dispatch([]notify.Event{{Key: "x"}})

	assert.Equal(t, 1, calls)
}

func TestSubscribeDuringDeliveryNotInvokedThisRound(t *testing.T) {
	p := notify.New(nil, nil)
	var lateCalls int
	p.Subscribe(func(ev notify.Event) {
		p.Subscribe(func(notify.Event) { lateCalls++ })
	})

	p.Dispatch([]notify.Event{{Key: "x"}})
	assert.Equal(t, 0, lateCalls)

	p.Dispatch([]notify.Event{{Key: "x"}})
	assert.Equal(t, 1, lateCalls)
}

func TestPanickingSubscriberIsContained(t *testing.T) {
	log := &fakeLogger{}
	var errKey string
	var recovered any
	p := notify.New(log, func(key string, r any) {
		errKey = key
		recovered = r
	})

	var afterCalled bool
	p.Subscribe(func(ev notify.Event) { panic("boom") })
	p.Subscribe(func(ev notify.Event) { afterCalled = true })

	require.NotPanics(t, func() {
		p.Dispatch([]notify.Event{{Key: "k"}})
	})

	assert.True(t, afterCalled)
	assert.Equal(t, "k", errKey)
	assert.Equal(t, "boom", recovered)
	assert.Len(t, log.lines, 1)
}

func TestDispatchPerKeyOnlySkipsGlobal(t *testing.T) {
	p := notify.New(nil, nil)
	var globalCalls, keyCalls int
	p.Subscribe(func(notify.Event) { globalCalls++ })
	p.SubscribeKey("k", func(notify.Event) { keyCalls++ })

	p.DispatchPerKeyOnly([]notify.Event{{Key: "k"}})

	assert.Equal(t, 0, globalCalls)
	assert.Equal(t, 1, keyCalls)
}

func TestDispatchGlobalSyntheticSkipsPerKey(t *testing.T) {
	p := notify.New(nil, nil)
	var globalEvents []string
	var keyCalls int
	p.Subscribe(func(ev notify.Event) { globalEvents = append(globalEvents, ev.Key) })
	p.SubscribeKey("k", func(notify.Event) { keyCalls++ })

	p.DispatchGlobalSynthetic("__batch__")

	assert.Equal(t, []string{"__batch__"}, globalEvents)
	assert.Equal(t, 0, keyCalls)
}
