package status_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
	"github.com/dbahrdt/accessory-bringup/pkg/status"
	"github.com/dbahrdt/accessory-bringup/pkg/status/mocks"
)

const topic = "accessory/AA:BB/bringup"

type capture struct {
	mu   sync.Mutex
	docs []status.Status
}

func (c *capture) add(t *testing.T, payload []byte) {
	var st status.Status
	assert.NoError(t, json.Unmarshal(payload, &st))
	c.mu.Lock()
	c.docs = append(c.docs, st)
	c.mu.Unlock()
}

func (c *capture) states() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.State
	}
	return out
}

func (c *capture) at(i int) status.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docs[i]
}

func newPublisher(t *testing.T) (*status.Publisher, *mocks.MockTransport, *capture) {
	tr := mocks.NewMockTransport(t)
	c := &capture{}
	tr.EXPECT().Publish(topic, mock.Anything, byte(1), true).
		Run(func(_ string, payload []byte, _ byte, _ bool) { c.add(t, payload) }).
		Return(nil)
	tr.EXPECT().Close().Return(nil).Once()
	p := status.NewPublisher(status.Config{Transport: tr, Topic: topic, QoS: 1})
	return p, tr, c
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "accessory/AA:BB/bringup", status.Topic("accessory", "AA:BB"))
}

func TestOfflinePayload(t *testing.T) {
	var st status.Status
	require.NoError(t, json.Unmarshal(status.OfflinePayload(), &st))
	assert.Equal(t, status.StateOffline, st.State)
}

func TestPublisherStateChanges(t *testing.T) {
	p, _, c := newPublisher(t)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.Log(log.Event{Timestamp: ts, Category: log.CategoryDispatch, Dispatch: &log.DispatchEvent{Source: "IP_EVENT", Name: "STA_GOT_IP"}})
	ev := log.NewStateEvent(log.ComponentProvisioning, log.StateEntityProvisioning, "STATION_CONNECTING", "STATION_CONNECTED", "got ip")
	ev.Timestamp = ts
	p.Log(ev)

	require.Eventually(t, func() bool { return p.Published() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{status.StateOnline, "STATION_CONNECTED"}, c.states())

	doc := c.at(1)
	assert.Equal(t, "PROVISIONING", doc.Entity)
	assert.Equal(t, "IP_EVENT", doc.Source)
	assert.Equal(t, "STA_GOT_IP", doc.Event)
	assert.Equal(t, "got ip", doc.Reason)
	assert.True(t, ts.Equal(doc.TS))
	assert.Equal(t, doc.State, p.Last().State)

	require.NoError(t, p.Close())
	assert.Equal(t, []string{status.StateOnline, "STATION_CONNECTED", status.StateOffline}, c.states())
}

func TestPublisherFatalError(t *testing.T) {
	p, _, c := newPublisher(t)

	p.Log(log.NewErrorEvent(log.ComponentServer, "start", errors.New("bad cert"), false))
	p.Log(log.NewErrorEvent(log.ComponentServer, "start", errors.New("bad cert"), true))
	require.NoError(t, p.Close())

	states := c.states()
	require.Equal(t, []string{status.StateOnline, status.StateFailed, status.StateOffline}, states)
	assert.Equal(t, "SERVER", c.at(1).Entity)
	assert.Equal(t, "bad cert", c.at(1).Reason)
}

func TestPublisherTransportFailure(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().Publish(topic, mock.Anything, byte(0), true).Return(errors.New("broker gone"))
	tr.EXPECT().Close().Return(nil)

	p := status.NewPublisher(status.Config{Transport: tr, Topic: topic})
	p.Log(log.NewStateEvent(log.ComponentServer, log.StateEntityServer, "STOPPED", "RUNNING", ""))
	require.NoError(t, p.Close())

	assert.Equal(t, uint64(3), p.Failed())
	assert.Zero(t, p.Published())
}

func TestPublisherLogAfterClose(t *testing.T) {
	p, _, c := newPublisher(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	p.Log(log.NewStateEvent(log.ComponentServer, log.StateEntityServer, "STOPPED", "RUNNING", ""))
	assert.Equal(t, uint64(1), p.Dropped())
	assert.Equal(t, []string{status.StateOnline, status.StateOffline}, c.states())
}

func TestPublisherDropsOnFullQueue(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	release := make(chan struct{})
	tr.EXPECT().Publish(topic, mock.Anything, byte(0), true).
		Run(func(string, []byte, byte, bool) { <-release }).
		Return(nil)
	tr.EXPECT().Close().Return(nil)

	p := status.NewPublisher(status.Config{Transport: tr, Topic: topic, QueueSize: 1})
	for i := 0; i < 10; i++ {
		p.Log(log.NewStateEvent(log.ComponentServer, log.StateEntityServer, "", "RUNNING", ""))
	}
	assert.Positive(t, p.Dropped())
	close(release)
	require.NoError(t, p.Close())
}
