package capture

// deviceEvent is what the recording loop consumes. Device callbacks and the
// public Stop/Cancel calls are turned into these so a single goroutine owns
// the recording state.
type deviceEvent interface{ isDeviceEvent() }

type chunkReceived struct{ data []byte }

type stopped struct{}

type failed struct{ err error }

func (chunkReceived) isDeviceEvent() {}
func (stopped) isDeviceEvent()       {}
func (failed) isDeviceEvent()        {}
