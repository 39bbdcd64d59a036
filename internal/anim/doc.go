// Package anim defines the contract shared by every panel animation: the
// Animation interface, the Frame buffer it fills, the delay Timer that gates
// simulation ticks and the fixed-width parameter schema used to decode
// start commands.
//
// An Animation is stepped with the elapsed time in seconds. It only touches
// its frame when its timer fires, and returns the same buffer every call;
// callers that keep a frame across steps must Clone it.
package anim
