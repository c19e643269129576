// Package nested composes a collapsible header above independently
// scrollable content and routes vertical gestures between the two through a
// pre/post scroll and fling protocol.
package nested
