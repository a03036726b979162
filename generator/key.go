package generator

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/hupe1980/stmgo/core"
)

// summaryMaxWords bounds the heuristic summary length.
const summaryMaxWords = 12

// DeriveKey builds the entry key from the coordinates and a content hash.
// The coordinate fragment keeps keys human-scannable; the hash suffix keeps
// distinct texts that round to the same fragment apart. Identical text always
// derives the identical key.
func DeriveKey(coords core.Coordinates, text string) string {
	h := fnv.New64a()
	h.Write([]byte(text))
	return fmt.Sprintf("%s_%016x", coords.Fragment(), h.Sum64())
}

// Summarize produces a short heuristic summary: the leading words of the
// text, normalized to a single line.
func Summarize(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) <= summaryMaxWords {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:summaryMaxWords], " ") + "..."
}
