package input

import (
	"fmt"
	"sort"
)

// AssignOutputFilenames gives every row a distinct output name before any
// processing starts, so a failing row still has one. Names derive from the
// sanitized pid; duplicates get "__2", "__3", … counters in input order
// (by index), which makes the assignment a pure function of the row set —
// completion order can never perturb it.
func AssignOutputFilenames(rows []Row) map[int]string {
	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	counts := make(map[string]int)
	assigned := make(map[int]string, len(rows))

	for _, row := range ordered {
		base := row.PIDSanitized
		if base == "" {
			base = "pid"
		}
		counts[base]++

		if counts[base] == 1 {
			assigned[row.Index] = base + ".mp4"
		} else {
			assigned[row.Index] = fmt.Sprintf("%s__%d.mp4", base, counts[base])
		}
	}

	return assigned
}
