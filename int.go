package pinyintower

import (
	"sort"
)

// intersection returns the values contained in every sorted slice.
func intersection(sorted ...[]uint32) []uint32 {
	if len(sorted) == 0 {
		return nil
	}
	groups := make([][]uint32, len(sorted))
	copy(groups, sorted)
	sort.Slice(groups, func(i, j int) bool {
		return len(groups[i]) < len(groups[j])
	})
	var result []uint32
	cursors := make([]int, len(groups))
	for _, value := range groups[0] {
		matched := true
		for i := 1; i < len(groups); i++ {
			group := groups[i]
			for cursors[i] < len(group) && group[cursors[i]] < value {
				cursors[i]++
			}
			if cursors[i] == len(group) {
				return result
			}
			if group[cursors[i]] != value {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, value)
		}
	}
	return result
}

// union returns the sorted distinct values of all slices.
func union(groups ...[]uint32) []uint32 {
	seen := make(map[uint32]bool)
	var result []uint32
	for _, group := range groups {
		for _, value := range group {
			if !seen[value] {
				seen[value] = true
				result = append(result, value)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}
