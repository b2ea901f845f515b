package platform

// Client is the set of host services a layout engine calls into.
type Client interface {
	// Clipboard returns the host clipboard. The same instance is returned on
	// every call.
	Clipboard() Clipboard

	// LoadResource returns the bundled resource registered under name. It
	// panics for names that are not registered.
	LoadResource(name string) Resource

	// CurrentTime returns wall-clock time in seconds since the Unix epoch.
	CurrentTime() float64

	// SetSharedTimerFiredFunction registers the function run when the shared
	// timer fires. A nil function disables the callback.
	SetSharedTimerFiredFunction(f func())

	// SetSharedTimerFireTime (re)arms the shared timer to fire at fireTime,
	// in the same units as CurrentTime. Times in the past fire as soon as
	// possible.
	SetSharedTimerFireTime(fireTime float64)

	// StopSharedTimer disarms the shared timer.
	StopSharedTimer()

	// CallOnMainThread runs f on the main loop.
	CallOnMainThread(f func())
}

var _ Client = (*Platform)(nil)
