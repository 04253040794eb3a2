package redkit

// ShutdownCoordinator runs the ordered teardown from spec.md §4.5:
// flag raised, dispatcher inbox closed (the dispatcher then drops the
// executor inboxes itself, letting both sub-executors drain and exit),
// listener closed, every client killed. The goroutine joins happen in
// Server.Shutdown via its WaitGroup, the same sequencing the
// original's thread-join chain enforces.
type ShutdownCoordinator struct {
	dispatcherInbox chan *RawCommand
	listener        interface{ Close() error }
	srv             *ServerAttributes
}

func NewShutdownCoordinator(dispatcherInbox chan *RawCommand, listener interface{ Close() error }, srv *ServerAttributes) *ShutdownCoordinator {
	return &ShutdownCoordinator{
		dispatcherInbox: dispatcherInbox,
		listener:        listener,
		srv:             srv,
	}
}

// Shutdown executes the teardown sequence once; closing an
// already-closed channel would panic, so the whole call is guarded by
// sync.Once in Server.
func (c *ShutdownCoordinator) Shutdown() {
	close(c.dispatcherInbox)
	if c.listener != nil {
		c.listener.Close()
	}
	c.srv.KillAll()
}
