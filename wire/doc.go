// Package wire implements the line-oriented framing used between the
// supervisor and the dispatcher running inside the host application.
//
// # Frames
//
// A request frame is zero or more raw payload lines followed by a sentinel
// line naming the execution mode:
//
//	x = 5
//	>>>exec
//
// A response frame is zero or more output lines followed by a bare sentinel:
//
//	5
//	>>>
//
// Frames are not escaped or length-prefixed. A payload line that begins with
// [Sentinel] terminates the frame early; callers must not send such payloads.
//
// Exactly one request frame is answered by exactly one response frame before
// the next request is written. The protocol is not pipelined.
package wire
