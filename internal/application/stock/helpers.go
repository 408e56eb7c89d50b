package stock

import (
	"fmt"
	"sort"
)

// uniqueIDs elimina duplicados y ceros, y ordena ascendente.
// El orden ascendente es el orden de toma de locks.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}
