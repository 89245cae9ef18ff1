// Package finder locates an application's log directories.
//
// It walks the platform's standard application data roots (plus any
// user-configured extras) looking for directories named after the
// application, or directories whose name suggests logging and whose path
// mentions the application. A directory only counts if it actually holds
// log files within a shallow probe. Exact matches suppress weaker
// candidates.
package finder
