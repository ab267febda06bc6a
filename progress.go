package meshsimplify

import (
	"fmt"
	"log"
	"sync"
)

// LogSink receives formatted progress and diagnostic lines from the
// package-wide logger. Implementations must be reentrancy-safe: a sink may
// be invoked from any goroutine that holds an Engine, and calls are not
// serialized (logMu guards only the swap and snapshot of the sink, and is
// released before the sink is called).
type LogSink interface {
	Log(severity, msg string)
}

// Severity levels passed to LogSink.Log.
const (
	SeverityVerbose = "verbose"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// consoleSink is the default LogSink, writing through the standard log
// package.
type consoleSink struct{}

func (consoleSink) Log(severity, msg string) {
	log.Printf("[meshsimplify] %s: %s", severity, msg)
}

var (
	logMu   sync.Mutex
	logSink LogSink = consoleSink{}
)

// SetLogSink replaces the process-wide log sink. It is safe to call from
// any goroutine; the previous sink is simply dropped. Pass nil to disable
// logging entirely.
func SetLogSink(sink LogSink) {
	logMu.Lock()
	defer logMu.Unlock()
	logSink = sink
}

// logLine snapshots the current sink under the mutex, then calls into it
// after releasing the lock ("every log invocation takes that
// mutex, snapshots the current sink, and releases the mutex before calling
// into the sink").
func logLine(severity, msg string) {
	logMu.Lock()
	sink := logSink
	logMu.Unlock()
	if sink != nil {
		sink.Log(severity, msg)
	}
}

// progressLine formats a ProgressEvent for the Verbose log path.
func progressLine(ev ProgressEvent) string {
	if ev.TargetTriangles < 0 {
		return fmt.Sprintf("pass %d: %d/%d triangles (lossless)", ev.Iteration, ev.CurrentTriangles, ev.OriginalTriangles)
	}
	return fmt.Sprintf("pass %d: %d/%d triangles (target %d)", ev.Iteration, ev.CurrentTriangles, ev.OriginalTriangles, ev.TargetTriangles)
}

// progressDispatcher multiplexes zero or more registered ProgressFunc
// callbacks for one Engine instance. It is not goroutine-safe; the engine
// that owns it is itself single-threaded.
type progressDispatcher struct {
	nextToken int
	callbacks map[int]ProgressFunc
}

func newProgressDispatcher() progressDispatcher {
	return progressDispatcher{callbacks: make(map[int]ProgressFunc)}
}

// add registers cb and returns a token usable with remove.
func (d *progressDispatcher) add(cb ProgressFunc) int {
	d.nextToken++
	token := d.nextToken
	d.callbacks[token] = cb
	return token
}

// remove clears a previously registered callback. A no-op if token is
// unknown (already removed, or never valid).
func (d *progressDispatcher) remove(token int) {
	delete(d.callbacks, token)
}

// dispatch invokes every registered callback with ev, in map iteration
// order, which is not registration order (callbacks are expected to be
// independent observers, not ordered subscribers).
func (d *progressDispatcher) dispatch(ev ProgressEvent) {
	for _, cb := range d.callbacks {
		cb(ev)
	}
}
