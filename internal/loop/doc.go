// Package loop provides the single "main" task runner that the Drive
// operations and the platform adapter share.
//
// Every completion callback, shared-timer fire and CallOnMainThread task is
// posted to a Loop and executed one at a time, in post order, on whichever
// goroutine is running the loop. Code that must observe a consistent view of
// main-thread state therefore never needs its own locking, as long as it only
// touches that state from loop tasks.
//
// Example usage:
//
//	l := loop.New()
//	l.Post(func() { fmt.Println("on the main loop") })
//	if err := l.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package loop
