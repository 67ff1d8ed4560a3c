package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	subject string
	data    []byte
	err     error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data
	return p.err
}

func TestNATSNotifier_Publishes(t *testing.T) {
	pub := &recordingPublisher{}
	n := &NATSNotifier{pub: pub, prefix: "carbonpay"}

	ev := Event{Type: TypeOnboardingCompleted, OwnerID: "0xabc", RecordID: "onboarding-1", OccurredAt: time.Unix(0, 0).UTC()}
	require.NoError(t, n.Notify(context.Background(), ev))

	assert.Equal(t, "carbonpay.onboarding.completed", pub.subject)
	var got Event
	require.NoError(t, json.Unmarshal(pub.data, &got))
	assert.Equal(t, ev, got)
}

func TestNATSNotifier_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	n := &NATSNotifier{pub: &recordingPublisher{err: boom}}

	err := n.Notify(context.Background(), Event{Type: TypeOnboardingCompleted})
	assert.ErrorIs(t, err, boom)
}

func TestFanout_DeliversToAll(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	f := NewFanout(nil,
		NotifierFunc(func(context.Context, Event) error { calls = append(calls, "a"); return boom }),
		NotifierFunc(func(context.Context, Event) error { calls = append(calls, "b"); return nil }),
		Noop{},
	)

	err := f.Notify(context.Background(), Event{Type: TypeOnboardingCompleted})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestFanout_Subscribe(t *testing.T) {
	f := NewFanout(nil)
	require.NoError(t, f.Notify(context.Background(), Event{Type: TypeOnboardingCompleted}))

	var got []Event
	f.Subscribe(NotifierFunc(func(_ context.Context, ev Event) error { got = append(got, ev); return nil }))
	require.NoError(t, f.Notify(context.Background(), Event{Type: TypeOnboardingCompleted, OwnerID: "0xabc"}))

	require.Len(t, got, 1)
	assert.Equal(t, "0xabc", got[0].OwnerID)
}
