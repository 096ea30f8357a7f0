package cache

import (
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SetKey derives a stable key for an unordered set of ids: the same ids in
// any order, with or without duplicates, produce the same key.
func SetKey(ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	d := xxhash.New()
	for _, id := range sorted {
		_, _ = d.WriteString(id)
		_, _ = d.Write([]byte{0})
	}
	return strconv.Itoa(len(sorted)) + ":" + strconv.FormatUint(d.Sum64(), 16)
}
