package propagate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/binding"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func rateProperty(t *testing.T) *appdef.PropertyDefinition {
	t.Helper()
	def := appdef.New("iperf")
	prop, err := def.DefineProperty("rate", "send rate", "--rate", appdef.Typed(appdef.TypeInteger), appdef.Dynamic(true))
	require.NoError(t, err)
	return prop
}

func TestWatch_OneMessagePerChange(t *testing.T) {
	t.Parallel()

	rec := &messaging.Recorder{}
	p := New(rec)
	v := binding.NewVariable("rate", cty.NilVal)

	sub := p.Watch(context.Background(), rateProperty(t), v, "iperf#1", "senders")
	defer sub.Unsubscribe()

	for _, n := range []int64{10, 20, 20} {
		v.Set(cty.NumberIntVal(n))
	}

	sent := rec.Sent()
	require.Len(t, sent, 3, "equal consecutive values are not deduplicated")
	for i, want := range []int64{10, 20, 20} {
		assert.Equal(t, messaging.NodeSet("senders"), sent[i].NodeSet)
		assert.Equal(t, "iperf#1", sent[i].Message.AppID)
		assert.Equal(t, messaging.TypeConfigure, sent[i].Message.Type)
		require.Len(t, sent[i].Message.Properties, 1)
		assert.True(t, sent[i].Message.Properties["--rate"].RawEquals(cty.NumberIntVal(want)))
	}
}

func TestWatch_ClearedValueIsNotSent(t *testing.T) {
	t.Parallel()

	rec := &messaging.Recorder{}
	v := binding.NewVariable("rate", cty.NumberIntVal(1))
	New(rec).Watch(context.Background(), rateProperty(t), v, "iperf#1", "senders")

	v.Clear()
	v.Set(cty.NullVal(cty.Number))
	assert.Empty(t, rec.Sent())

	v.Set(cty.NumberIntVal(2))
	assert.Len(t, rec.Sent(), 1)
}

func TestWatch_Unsubscribe(t *testing.T) {
	t.Parallel()

	rec := &messaging.Recorder{}
	v := binding.NewVariable("rate", cty.NilVal)
	sub := New(rec).Watch(context.Background(), rateProperty(t), v, "iperf#1", "senders")

	v.Set(cty.NumberIntVal(1))
	sub.Unsubscribe()
	v.Set(cty.NumberIntVal(2))

	assert.Len(t, rec.Sent(), 1)
}

func TestWatch_SendFailureIsLoggedNotRetried(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	calls := 0
	failing := messaging.MessengerFunc(func(context.Context, messaging.NodeSet, *messaging.Message) error {
		calls++
		return errors.New("broker unreachable")
	})
	v := binding.NewVariable("rate", cty.NilVal)
	New(failing).Watch(ctx, rateProperty(t), v, "iperf#1", "senders")

	v.Set(cty.NumberIntVal(1))

	assert.Equal(t, 1, calls)
	assert.Contains(t, buf.String(), "broker unreachable")
}

// fanoutSource is a Dynamic binding that calls its handlers from whichever
// goroutine invokes notify.
type fanoutSource struct {
	mu       sync.Mutex
	handlers []binding.Handler
}

func (f *fanoutSource) Value() (cty.Value, bool) { return cty.NilVal, false }

func (f *fanoutSource) OnChange(h binding.Handler) binding.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, h)
	return noopSubscription{}
}

func (f *fanoutSource) notify(v cty.Value) {
	f.mu.Lock()
	handlers := append([]binding.Handler(nil), f.handlers...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(v, true)
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

func TestWatch_ConcurrentNotificationsSendOneAtATime(t *testing.T) {
	t.Parallel()

	var inFlight, overlaps, sends atomic.Int64
	m := messaging.MessengerFunc(func(context.Context, messaging.NodeSet, *messaging.Message) error {
		if inFlight.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		sends.Add(1)
		inFlight.Add(-1)
		return nil
	})
	src := &fanoutSource{}
	sub := New(m).Watch(context.Background(), rateProperty(t), src, "iperf#1", "senders")
	defer sub.Unsubscribe()

	const notifiers = 16
	var wg sync.WaitGroup
	for i := range notifiers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.notify(cty.NumberIntVal(int64(i)))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(notifiers), sends.Load())
	assert.Zero(t, overlaps.Load(), "sends for one binding must never overlap")
}
