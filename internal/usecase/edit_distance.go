package usecase

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of single-rune insertions, deletions or substitutions turning a
// into b. No case folding is done here.
func EditDistance(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) < len(t) {
		s, t = t, s
	}

	// row[j] is the distance between the prefix of s seen so far and t[:j]
	row := make([]int, len(t)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(s); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(t); j++ {
			above := row[j]
			replace := diag
			if s[i-1] != t[j-1] {
				replace++
			}
			row[j] = min(above+1, row[j-1]+1, replace)
			diag = above
		}
	}

	return row[len(t)]
}
