// Package supervisor owns the host application child process.
//
// A Supervisor starts the host lazily on the first call, exchanges one
// request frame and one response frame per call over the child's stdin and
// stdout, and shuts the child down with bounded waits.
//
// # Failure model
//
// A spawn failure is reported as a [*SpawnError] and leaves no handle, so the
// next call tries again. Once the pipe breaks mid-exchange the handle is
// marked broken and every later call fails with [ErrBrokenPipe]; the child is
// not restarted. Script failures inside the host are not errors: they come
// back as trace text.
//
// # Shutdown
//
// [Supervisor.Close] closes stdin and sends SIGTERM, waits up to
// Config.TerminateTimeout, then sends SIGKILL and waits up to
// Config.KillTimeout. If the child is still alive after that it is abandoned.
package supervisor
