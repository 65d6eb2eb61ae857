package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func fullRawRecord() RawRecord {
	return RawRecord{
		"id":                           float64(233),
		"web_name":                     "Haaland",
		"first_name":                   "Erling",
		"second_name":                  "Haaland",
		"team":                         float64(13),
		"element_type":                 float64(4),
		"status":                       "a",
		"news":                         "",
		"chance_of_playing_next_round": float64(75),
		"now_cost":                     float64(151),
		"selected_by_percent":          "58.3",
		"transfers_in_event":           float64(120345),
		"transfers_out_event":          float64(20345),
		"cost_change_event":            float64(1),
		"total_points":                 float64(96),
		"points_per_game":              "8.0",
		"minutes":                      float64(1012),
		"starts":                       float64(12),
		"goals_scored":                 float64(14),
		"assists":                      float64(3),
		"clean_sheets":                 float64(5),
		"goals_conceded":               float64(11),
		"yellow_cards":                 float64(2),
		"saves":                        float64(0),
		"bonus":                        float64(12),
		"bps":                          float64(412),
		"influence":                    "620.4",
		"creativity":                   "210.7",
		"threat":                       "890.2",
		"ict_index":                    "172.1",
		"expected_goals":               "12.44",
		"expected_assists":             "2.31",
		"expected_goal_involvements":   "14.75",
		"expected_goals_conceded":      "10.02",
		"defensive_contribution":       float64(18),
		"form":                         "9.2",
		"value_form":                   "0.6",
		"value_season":                 "6.4",
		"ep_next":                      "8.7",
	}
}

func TestAdaptPlayerRecord(t *testing.T) {
	row, err := AdaptPlayerRecord(fullRawRecord())
	require.NoError(t, err)

	require.Equal(t, int64(233), row.PlayerID)
	require.Equal(t, "Haaland", row.WebName)
	require.Equal(t, int64(13), row.TeamCode)
	require.Equal(t, "FWD", string(row.Position))
	require.Equal(t, int64(75), row.ChanceOfPlaying)
	require.InDelta(t, 15.1, row.Cost, 1e-9)
	require.InDelta(t, 58.3, row.SelectedByPercent, 1e-9)
	require.Equal(t, int64(1012), row.Minutes)
	require.InDelta(t, 12.44, row.ExpectedGoals, 1e-9)
	require.Equal(t, int64(18), row.DefensiveContribution)
	require.InDelta(t, 8.7, row.ExpectedPointsNext, 1e-9)
	// starts is the matches_played fallback when upstream sends no
	// appearance count.
	require.Equal(t, int64(12), row.MatchesPlayed)
}

func TestAdaptPlayerRecord_Idempotent(t *testing.T) {
	rec := fullRawRecord()

	first, err := AdaptPlayerRecord(rec)
	require.NoError(t, err)
	second, err := AdaptPlayerRecord(rec)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestAdaptPlayerRecord_DefaultsForAbsentFields(t *testing.T) {
	row, err := AdaptPlayerRecord(RawRecord{"id": float64(7)})
	require.NoError(t, err)

	require.Equal(t, int64(7), row.PlayerID)
	require.Equal(t, "", row.WebName)
	require.Equal(t, "", row.News)
	require.Zero(t, row.Cost)
	require.Zero(t, row.Minutes)
	require.Zero(t, row.ExpectedGoals)
	require.Zero(t, row.TotalPoints)
	require.Equal(t, "UNK", string(row.Position))
	// null chance of playing means fully fit upstream.
	require.Equal(t, int64(100), row.ChanceOfPlaying)
}

func TestAdaptPlayerRecord_MissingIDIsFatal(t *testing.T) {
	_, err := AdaptPlayerRecord(RawRecord{"web_name": "Ghost"})
	require.True(t, errors.Is(err, ErrMissingPlayerID))

	_, err = AdaptPlayerRecord(RawRecord{"id": float64(0)})
	require.True(t, errors.Is(err, ErrMissingPlayerID))
}

func TestAdaptPlayerRecord_LegacyFieldAliases(t *testing.T) {
	row, err := AdaptPlayerRecord(RawRecord{
		"id":       float64(9),
		"def_cons": float64(22),
		"xg":       "3.5",
		"cbi":      float64(40),
	})
	require.NoError(t, err)
	require.Equal(t, int64(22), row.DefensiveContribution)
	require.InDelta(t, 3.5, row.ExpectedGoals, 1e-9)
	require.Equal(t, int64(40), row.CBI)
}

func TestAdaptPlayerRecord_NewNameWinsOverAlias(t *testing.T) {
	row, err := AdaptPlayerRecord(RawRecord{
		"id":                     float64(9),
		"defensive_contribution": float64(31),
		"def_cons":               float64(5),
	})
	require.NoError(t, err)
	require.Equal(t, int64(31), row.DefensiveContribution)
}
