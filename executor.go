package redkit

import "strings"

// CommandSubExecutor is the Go analogue of CommandSubDelegator::start:
// one goroutine, one owned resource of type T, one inbox. Database and
// ServerAttributes each get their own instantiation so neither ever
// needs a lock — every mutation happens on this loop's goroutine.
type CommandSubExecutor[T any] struct {
	resource  T
	runnables RunnablesMap[T]
	inbox     <-chan *RawCommand
}

func NewCommandSubExecutor[T any](resource T, runnables RunnablesMap[T], inbox <-chan *RawCommand) *CommandSubExecutor[T] {
	return &CommandSubExecutor[T]{resource: resource, runnables: runnables, inbox: inbox}
}

// Run drains the inbox until it's closed (the shutdown coordinator's
// signal to stop), replying to each command's own Reply channel. An
// unrecognized command name after routing is an internal bug rather
// than a client mistake (the dispatcher already validated the route),
// so it is reported as errCommandDoesNotExist rather than
// errUnknownCommand.
func (e *CommandSubExecutor[T]) Run() {
	for cmd := range e.inbox {
		name := strings.ToLower(cmd.Argv[0])
		fn, ok := e.runnables[name]
		if !ok {
			sendReply(cmd.Reply, errCommandDoesNotExist().Encode())
			continue
		}
		reply, err := fn(cmd.Argv, e.resource, cmd.Fields)
		if err != nil {
			sendReply(cmd.Reply, err.Encode())
			continue
		}
		sendReply(cmd.Reply, reply)
	}
}

// sendReply is a non-blocking send: Reply is always buffered with
// capacity 1, so this only ever fails if the dispatcher already gave
// up on this command (client died mid-flight), in which case dropping
// the reply is correct.
func sendReply(ch chan string, reply string) {
	select {
	case ch <- reply:
	default:
	}
}
