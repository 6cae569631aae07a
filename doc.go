// Package fastdb provides the shared configuration for the FastDB server
// and client binaries.
//
// FastDB is a multi-client TCP front end to a relational data store. A
// client logs in with username and password, selects a database, and then
// sends either catalog meta-commands (create/drop/use a database, add or
// delete a user) or raw SQL that is executed by the engine bound to the
// selected database. Every request gets exactly one text reply: a
// confirmation, an "ERROR: ..." string, or a bordered result table with a
// row-count and timing suffix.
//
// # Quick start
//
// Start a server:
//
//	fastdbd serve --addr localhost --port 5100 --data-dir databases
//
// Connect with the client:
//
//	fastdb --addr localhost --port 5100 --user alice
//
// The subpackages map onto the moving parts: catalog (shared user/database
// registry), engine (per-session handle to the relational engine), protocol
// (request classification and wire strings), format (result tables),
// storage (backing-store files), backup (dump/restore of backing stores).
package fastdb
