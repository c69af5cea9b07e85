// Package form binds a schema to mutable form state and orchestrates the
// submit and reset lifecycle.
//
// An Engine owns two maps: the current value of each edited field and the
// error message of each field that failed the last submit attempt. Edits
// replace one field's value; nothing is validated until Submit, which checks
// every field in schema order and calls the submit callback only when no
// field fails. Every mutation swaps in a fresh copy of the affected map, so
// snapshots handed to observers or to the callback never change afterwards.
//
// Engines are not safe for concurrent use. They model a single interactive
// session driven by one event loop; servers should create one engine per
// request.
package form
