// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. The cache logs background activity (saves, recoveries,
// promotions) through this interface; the default is NoOpLogger so a library
// consumer opts into output explicitly.
package logging
