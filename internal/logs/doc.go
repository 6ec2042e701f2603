// Package logs reads reel.log for the `reel logs` command.
//
// Last returns the trailing lines of the file with bounded memory, ReadFrom
// picks up whatever was appended after a known offset, and Follow polls for new
// lines until its context ends. MatchJob filters lines down to a single muxing
// job for both the console and JSON log formats.
package logs
