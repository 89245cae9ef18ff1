// Package logfile reads log files for display.
//
// It classifies files by extension, refuses binary and oversized content
// using a printable-ratio sample of the first 4KB, and transparently
// decompresses .gz, .bz2 and .zip archives. Tail extracts the last N lines
// of a file with a ring buffer, using O(N) memory regardless of file size,
// and Search greps a set of files for a case-insensitive substring.
//
// All functions are pure reads; nothing in this package mutates the
// filesystem.
package logfile
