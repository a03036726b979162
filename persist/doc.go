// Package persist implements the rolling-pair persistence engine. Two slot
// files (A and B) alternate as save targets: every save writes the slot not
// used by the most recent successful save, through a temp file followed by an
// atomic rename. A crash mid-write therefore always leaves the other slot's
// last complete snapshot intact; recovery picks the newest valid slot and
// points the next save at the opposite one.
package persist
