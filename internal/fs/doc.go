// Package fs abstracts the file system operations the persistence engine
// performs so that write, sync, rename and removal failures can be injected
// in tests. Production code uses Default (the local file system).
package fs
