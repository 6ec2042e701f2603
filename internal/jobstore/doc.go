// Package jobstore keeps muxing job history in SQLite.
//
// Every accepted job is inserted as running and later moved to succeeded or
// failed. Rows still running when a process starts belong to a crashed run
// and are failed by ResetInterrupted. The newest succeeded output lets the
// UI gate offer replay and share across restarts.
package jobstore
