// Package hostapp is a small scriptable host application used as the bridge
// target.
//
// It has a single main thread ([Loop]) that owns all scene data ([State]).
// Payloads run in an embedded Starlark console with a predeclared "host"
// module. [App.RunBridge] starts the request loop from a setup timer, the
// same way a real host would load a startup script, and routes every request
// onto the main thread through the loop's scheduler.
//
// Mutating scene data from any other goroutine fails with [ErrWrongThread].
package hostapp
