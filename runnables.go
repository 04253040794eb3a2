package redkit

// Runnable is the Go analogue of the original implementation's
// Runnable<T> trait: a command body that executes against exactly one
// owned resource type T (Database, *ServerAttributes, or *ClientFields)
// and produces a RESP-encoded reply or a CmdError. Parameterizing over
// T is what lets one CommandSubExecutor[T] loop run any command bound
// to its resource without a type switch per command. The submitting
// client rides along so server-executor commands that act on a session
// (the registry side of subscribe/unsubscribe, notify_monitors) can
// reach it; keyspace runnables ignore it.
type Runnable[T any] func(argv []string, resource T, client *ClientFields) (reply string, err *CmdError)

// RunnablesMap binds command names to the Runnable that implements
// them for a given resource type. A name absent from the map is not
// necessarily unroutable — it may belong to a different resource's map
// — but a name absent from every map a command could reach is
// errCommandDoesNotExist.
type RunnablesMap[T any] map[string]Runnable[T]
