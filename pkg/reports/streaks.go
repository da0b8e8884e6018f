package reports

// Streaks computes the trailing and best run of completed days over a
// chronologically ordered series. A series ending in an incomplete day has a
// current streak of zero.
func Streaks(completed []bool) (current, best int) {
	run := 0
	for _, ok := range completed {
		if ok {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return run, best
}
