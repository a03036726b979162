// Package testutil provides fluent builders and stub collaborators shared by
// the package tests.
package testutil
