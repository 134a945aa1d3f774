package scoring

// EditDistance is the Levenshtein distance between a and b over code points.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// dp[i][j] = distance between ra[:i] and rb[:j]
	dp := make([][]int, len(ra)+1)
	for i := range dp {
		dp[i] = make([]int, len(rb)+1)
		dp[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		dp[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(
				dp[i-1][j]+1,      // deletion
				dp[i][j-1]+1,      // insertion
				dp[i-1][j-1]+cost, // substitution
			)
		}
	}
	return dp[len(ra)][len(rb)]
}

// StringSimilarity returns 1 - distance/len(longer), in [0, 1].
// Two empty strings are identical.
func StringSimilarity(a, b string) float64 {
	longer, shorter := a, b
	if len([]rune(b)) > len([]rune(a)) {
		longer, shorter = b, a
	}
	n := len([]rune(longer))
	if n == 0 {
		return 1.0
	}
	return 1 - float64(EditDistance(longer, shorter))/float64(n)
}
