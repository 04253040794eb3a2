package redkit

import (
	"sync/atomic"
	"testing"
	"time"
)

func newTestDispatcher(t *testing.T) (*CommandDispatcher, chan *RawCommand) {
	t.Helper()
	dispatcherInbox := make(chan *RawCommand, 8)
	dbInbox := make(chan *RawCommand, 8)
	srvInbox := make(chan *RawCommand, 8)
	monitors := NewMonitorRegistry()
	var flag atomic.Bool
	notify := NewNotifiers(make(chan LogMessage, 8), dispatcherInbox, &flag, "127.0.0.1:0")
	d := NewCommandDispatcher(dispatcherInbox, dbInbox, srvInbox, monitors, notify)

	db := NewDatabase()
	dbExec := NewCommandSubExecutor[*Database](db, dbRunnables, dbInbox)
	go dbExec.Run()
	go d.Run()

	return d, dispatcherInbox
}

func TestDispatcherRoutesKnownCommandToDatabase(t *testing.T) {
	_, inbox := newTestDispatcher(t)
	monitors := NewMonitorRegistry()
	fields := NewClientFields("c1", monitors)

	cmd := newRawCommand([]string{"set", "foo", "bar"}, fields)
	inbox <- cmd

	select {
	case reply := <-cmd.Reply:
		if reply != "+OK\r\n" {
			t.Errorf("reply = %q, want +OK\\r\\n", reply)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func TestDispatcherUnknownCommand(t *testing.T) {
	_, inbox := newTestDispatcher(t)
	monitors := NewMonitorRegistry()
	fields := NewClientFields("c1", monitors)

	cmd := newRawCommand([]string{"frobnicate", "a1", "a2"}, fields)
	inbox <- cmd

	select {
	case reply := <-cmd.Reply:
		if reply == "" {
			t.Fatal("expected an error reply")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func TestDispatcherInlineSubscribe(t *testing.T) {
	_, inbox := newTestDispatcher(t)
	monitors := NewMonitorRegistry()
	fields := NewClientFields("c1", monitors)

	cmd := newRawCommand([]string{"subscribe", "news"}, fields)
	inbox <- cmd

	select {
	case reply := <-cmd.Reply:
		if reply == "" {
			t.Fatal("expected a subscribe confirmation reply")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
	}
	if fields.Status() != StatusSubscriber {
		t.Errorf("status = %v, want subscriber", fields.Status())
	}
}
