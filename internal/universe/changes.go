package universe

import (
	"crypto-universe/internal/types"
)

// Diff computes the change-set between two consecutive selections. Added
// follows the order of current, Removed the order of previous.
func Diff(previous, current []string) types.SecurityChanges {
	prev := make(map[string]bool, len(previous))
	for _, s := range previous {
		prev[s] = true
	}
	cur := make(map[string]bool, len(current))
	for _, s := range current {
		cur[s] = true
	}

	changes := types.SecurityChanges{
		Added:    []string{},
		Removed:  []string{},
		Universe: append([]string{}, current...),
	}
	for _, s := range current {
		if !prev[s] {
			changes.Added = append(changes.Added, s)
		}
	}
	for _, s := range previous {
		if !cur[s] {
			changes.Removed = append(changes.Removed, s)
		}
	}
	return changes
}
