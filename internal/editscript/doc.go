// Package editscript defines the edits a tree diff produces, the buffer
// that orders them, and Apply, which replays a script on a source tree.
//
// A script removes structure before it builds any: every Detach and Unload
// comes ahead of every Load, Attach and Update. Nodes keep their IDs across
// the script, so a node that is detached in one place and attached in
// another has moved rather than been rebuilt.
package editscript
