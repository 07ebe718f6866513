package textutil

// Score rates the similarity of two strings on a 0-100 scale. Inputs are
// expected to be normalized (see NormalizeKey). Identical strings score 100.
// When the strings differ in length, the shorter is additionally slid across
// the longer so that a partial query ("incep") scores against the matching
// region of a full key ("inception 2010") rather than the whole string.
func Score(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	best := ratio(a, b)

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if window := len(shorter); window < len(longer) {
		for i := 0; i+window <= len(longer); i++ {
			if r := ratio(shorter, longer[i:i+window]); r > best {
				best = r
				if best == 100 {
					break
				}
			}
		}
	}
	return best
}

func ratio(a, b string) int {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein(a, b)
	return int(float64(longest-dist)/float64(longest)*100 + 0.5)
}

// levenshtein computes edit distance with a single rolling row.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
