// Package platform implements the embedder services a layout engine expects
// from its host: clipboard access, bundled image resources, wall-clock time,
// one shared one-shot timer and posting work to the main loop.
//
// All callbacks (timer fires and CallOnMainThread tasks) run on the
// loop.Dispatcher the Platform was created with, never on the goroutine that
// scheduled them.
package platform
