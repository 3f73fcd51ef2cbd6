package netmon

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_PublishesOnlyChanges(t *testing.T) {
	m := NewMonitor(nil, time.Second, nil)
	ch, cancel := m.Subscribe()
	defer cancel()

	assert.False(t, <-ch, "initial level is unavailable")

	m.Set(false)
	m.Set(true)
	m.Set(true)
	m.Set(false)

	assert.True(t, <-ch)
	assert.False(t, <-ch)
	assert.Len(t, ch, 0)
	assert.False(t, m.Available())
}

func TestMonitor_ProbeLoop(t *testing.T) {
	var up atomic.Bool
	up.Store(true)

	m := NewMonitor(func(ctx context.Context) bool { return up.Load() }, 10*time.Millisecond, nil)
	ch, cancel := m.Subscribe()
	defer cancel()
	<-ch

	m.Start()
	m.Start()
	defer m.Stop()

	select {
	case v := <-ch:
		assert.True(t, v)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not report availability")
	}

	up.Store(false)
	select {
	case v := <-ch:
		assert.False(t, v)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not report loss of availability")
	}
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(func(ctx context.Context) bool { return true }, 10*time.Millisecond, nil)
	m.Stop()
	m.Start()
	m.Stop()
	m.Stop()
}

func TestDialProber(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	probe, err := DialProber("http://"+ln.Addr().String()+"/users", time.Second)
	require.NoError(t, err)
	assert.True(t, probe(context.Background()))

	ln.Close()
	assert.False(t, probe(context.Background()))
}

func TestDialProber_InvalidURL(t *testing.T) {
	_, err := DialProber("not a url", time.Second)
	assert.Error(t, err)
}
