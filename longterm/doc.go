// Package longterm contains concrete core.LongTermStore implementations
// receiving entries promoted out of the short-term cache. The interface lives
// in the core package; pick a backend at wiring time. InMemoryStore suits
// tests and demos, the minio sub-package archives promotions to any
// S3-compatible object store.
package longterm
