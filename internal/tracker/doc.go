// Package tracker remembers which files on disk are unicode delimited text.
//
// The original workflow this tool replaces decided whether to convert a file
// on save by consulting a set of paths it had recognized at open time. That
// state machine lives here in two forms: Set, a pure in-memory value updated
// by applying events, and Store, a SQLite-backed persistent set shared by
// successive CLI invocations. The conversion core never touches either; the
// tracker is caller-side bookkeeping around it.
package tracker
