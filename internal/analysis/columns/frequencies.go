package columns

import (
	"sort"

	domainstats "autoinsight/domain/stats"
)

// Frequencies counts values, sorted by count descending with ties in
// encounter order. Percentages are of len(values), rounded to 2 places.
func Frequencies(values []string) []domainstats.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]domainstats.CategoryCount, len(order))
	for i, v := range order {
		out[i] = domainstats.CategoryCount{
			Value:      v,
			Count:      counts[v],
			Percentage: Round(float64(counts[v])/float64(len(values))*100, 2),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
