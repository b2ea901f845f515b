// Package watch follows the Drive change feed.
//
// A Watcher lives on a main loop. It asks for the changes after the last seen
// changestamp, follows next-page links until the feed is drained, hands every
// non-empty page to its handler and then arms the platform shared timer for
// the next poll. Only one request is in flight at a time.
package watch
