package snapshot

// Metrics are rate-normalized statistics derived from one current-state row.
// Pure per-row computation; the stored counts are never altered.
type Metrics struct {
	GoalsPer90     float64
	AssistsPer90   float64
	XGPer90        float64
	XAPer90        float64
	XGIPer90       float64
	SavesPer90     float64
	DefConPer90    float64
	PointsPerMatch float64
	BonusPerMatch  float64
}

// Per90 rescales a count to a 90-minutes-played basis. A zero denominator is
// substituted with 1 for the division only, so rows without minutes report 0
// instead of NaN.
func Per90(count, minutes float64) float64 {
	if minutes == 0 {
		minutes = 1
	}
	return count / minutes * 90
}

// PerMatch averages a count over matches played, with the same zero-denominator
// substitution as Per90.
func PerMatch(count, matches float64) float64 {
	if matches == 0 {
		matches = 1
	}
	return count / matches
}

// DeriveMetrics computes the full metric set for one snapshot row.
func DeriveMetrics(s PlayerSnapshot) Metrics {
	minutes := float64(s.Minutes)
	matches := float64(s.MatchesPlayed)

	return Metrics{
		GoalsPer90:     Per90(float64(s.GoalsScored), minutes),
		AssistsPer90:   Per90(float64(s.Assists), minutes),
		XGPer90:        Per90(s.ExpectedGoals, minutes),
		XAPer90:        Per90(s.ExpectedAssists, minutes),
		XGIPer90:       Per90(s.ExpectedGoalInvolvements, minutes),
		SavesPer90:     Per90(float64(s.Saves), minutes),
		DefConPer90:    Per90(float64(s.DefensiveContribution), minutes),
		PointsPerMatch: PerMatch(float64(s.TotalPoints), matches),
		BonusPerMatch:  PerMatch(float64(s.Bonus), matches),
	}
}
