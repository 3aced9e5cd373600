// Package dispatch is the half of the bridge that runs inside the host
// application.
//
// The host only allows its own main thread to touch its state, while request
// frames arrive on stdin and are read by an I/O goroutine. The package splits
// the work accordingly:
//
//   - [Dispatcher] owns the I/O goroutine. It reads a request frame, hands the
//     work to the host through a [Scheduler], and blocks on a [Slot] until the
//     outcome is available, then writes the response frame.
//
//   - [Runner] is the task the host scheduler invokes on its main thread. It
//     loads the payload into the host's scratch buffer, evaluates or executes
//     it through the [Interpreter], and deposits exactly one [Outcome].
//
//   - [Slot] is the capacity-one rendezvous between the two.
//
// Failures inside the payload are data: the Runner renders them as a trace
// and the Dispatcher writes that trace as an ordinary response. Only I/O
// failures surface as errors from [Dispatcher.Serve].
//
// Requests are strictly sequential. Writing a second request before the
// first response has been read is outside the protocol.
package dispatch
