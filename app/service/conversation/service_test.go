package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"replog/app/client/extraction"
	"replog/app/service/record"
	"replog/app/service/transcript"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	mu     sync.Mutex
	calls  int
	result *extraction.Result
	err    error

	started chan struct{}
	release chan struct{}
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (*extraction.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}

	return f.result, f.err
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func newService(t *testing.T, fake *fakeExtractor) *Service {
	t.Helper()

	di := do.New()
	t.Cleanup(func() { _ = di.Shutdown() })

	do.ProvideValue[extraction.Extractor](di, fake)
	do.Provide(di, transcript.New)
	do.Provide(di, record.New)
	do.Provide(di, New)

	return do.MustInvoke[*Service](di)
}

func TestService_Submit(t *testing.T) {
	t.Run("fresh service seeds the greeting and is idle", func(t *testing.T) {
		svc := newService(t, &fakeExtractor{})

		entries := svc.Transcript()
		require.Len(t, entries, 1)
		assert.Equal(t, transcript.SenderAssistant, entries[0].Sender)
		assert.Equal(t, Greeting, entries[0].Text)
		assert.False(t, svc.AwaitingResponse())
	})

	t.Run("successful round trip", func(t *testing.T) {
		svc := newService(t, &fakeExtractor{
			result: &extraction.Result{
				Reply: "Logged.",
				UpdatedForm: map[string]string{
					"hcp_name": "Dr. Lee",
					"date":     "Tuesday",
					"topics":   "dosing",
				},
			},
		})

		svc.Submit(context.Background(), "Met Dr. Lee on Tuesday to discuss new dosing.")

		entries := svc.Transcript()
		require.Len(t, entries, 3)
		assert.Equal(t, transcript.SenderUser, entries[1].Sender)
		assert.Equal(t, "Met Dr. Lee on Tuesday to discuss new dosing.", entries[1].Text)
		assert.Equal(t, transcript.SenderAssistant, entries[2].Sender)
		assert.Equal(t, "Logged.", entries[2].Text)

		rec := svc.Record()
		assert.Equal(t, "Dr. Lee", rec.HCPName)
		assert.Equal(t, "Tuesday", rec.Date)
		assert.Equal(t, "dosing", rec.Topics)
		assert.Equal(t, record.DefaultSentiment, rec.Sentiment)
		assert.Equal(t, record.DefaultInteractionType, rec.InteractionType)

		assert.False(t, svc.AwaitingResponse())
	})

	t.Run("submitted text is trimmed", func(t *testing.T) {
		svc := newService(t, &fakeExtractor{result: &extraction.Result{Reply: "ok"}})

		svc.Submit(context.Background(), "  hello  ")

		assert.Equal(t, "hello", svc.Transcript()[1].Text)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		fake := &fakeExtractor{result: &extraction.Result{Reply: "ok"}}
		svc := newService(t, fake)

		svc.Submit(context.Background(), "")
		svc.Submit(context.Background(), "   ")
		svc.Submit(context.Background(), "\n\t")

		assert.Equal(t, 1, len(svc.Transcript()))
		assert.Equal(t, 0, fake.callCount())
	})

	t.Run("no structured update leaves record alone", func(t *testing.T) {
		svc := newService(t, &fakeExtractor{result: &extraction.Result{Reply: "Noted."}})

		svc.Submit(context.Background(), "nothing structured here")

		assert.Equal(t, record.NewInteraction(), svc.Record())
	})

	t.Run("failure appends one fixed reply and keeps the record", func(t *testing.T) {
		svc := newService(t, &fakeExtractor{err: errors.New("connection refused")})

		svc.Submit(context.Background(), "Met Dr. Lee")

		entries := svc.Transcript()
		require.Len(t, entries, 3)
		assert.Equal(t, transcript.SenderAssistant, entries[2].Sender)
		assert.Equal(t, FailureReply, entries[2].Text)

		assert.Equal(t, record.NewInteraction(), svc.Record())
		assert.False(t, svc.AwaitingResponse())
	})

	t.Run("conversation stays usable after a failure", func(t *testing.T) {
		fake := &fakeExtractor{err: errors.New("boom")}
		svc := newService(t, fake)

		svc.Submit(context.Background(), "first try")

		fake.mu.Lock()
		fake.err = nil
		fake.result = &extraction.Result{Reply: "ok now"}
		fake.mu.Unlock()

		svc.Submit(context.Background(), "second try")

		entries := svc.Transcript()
		require.Len(t, entries, 5)
		assert.Equal(t, "ok now", entries[4].Text)
	})

	t.Run("re-entrant submit is dropped while awaiting", func(t *testing.T) {
		fake := &fakeExtractor{
			result:  &extraction.Result{Reply: "done"},
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		svc := newService(t, fake)

		started := fake.started
		done := make(chan struct{})
		go func() {
			defer close(done)
			svc.Submit(context.Background(), "slow one")
		}()

		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("first submit never reached the extractor")
		}

		assert.True(t, svc.AwaitingResponse())

		svc.Submit(context.Background(), "x")
		assert.Equal(t, 2, len(svc.Transcript()))
		assert.Equal(t, 1, fake.callCount())

		close(fake.release)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("first submit never finished")
		}

		assert.False(t, svc.AwaitingResponse())
		assert.Equal(t, 3, len(svc.Transcript()))
	})

	t.Run("transcript only grows and old entries are stable", func(t *testing.T) {
		fake := &fakeExtractor{result: &extraction.Result{Reply: "ok"}}
		svc := newService(t, fake)

		var snapshots [][]transcript.Entry
		inputs := []string{"one", "", "two", "   ", "three"}

		for _, in := range inputs {
			svc.Submit(context.Background(), in)
			snapshots = append(snapshots, svc.Transcript())
		}

		for i := 1; i < len(snapshots); i++ {
			require.GreaterOrEqual(t, len(snapshots[i]), len(snapshots[i-1]))

			for j, prev := range snapshots[i-1] {
				assert.Equal(t, prev.Sender, snapshots[i][j].Sender)
				assert.Equal(t, prev.Text, snapshots[i][j].Text)
			}
		}
	})
}
