package optimize

// Panel counts from min to max (inclusive) in steps of step.
func candidates(minPanels, maxPanels, step int) []int {
	if step < 1 {
		step = 1
	}
	var result []int
	for n := max(1, minPanels); n <= maxPanels; n += step {
		result = append(result, n)
	}
	return result
}
