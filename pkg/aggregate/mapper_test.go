package aggregate

import (
	"testing"

	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFirstWins(t *testing.T) {
	byNumber := Lookup([]openf1.Driver{
		{DriverNumber: 1, FullName: "Max Verstappen"},
		{DriverNumber: 1, FullName: "Someone Else"},
	})

	assert.Len(t, byNumber, 1)
	assert.Equal(t, "Max Verstappen", byNumber[1].FullName)
}

func TestDriverStandingsPlaceholder(t *testing.T) {
	rows := []openf1.ChampionshipDriver{
		{DriverNumber: 1, PointsCurrent: 575, PositionCurrent: 1},
		{DriverNumber: 44, PointsCurrent: 350.7, PositionCurrent: 2},
	}
	roster := []openf1.Driver{{DriverNumber: 1, FullName: "Max Verstappen", TeamName: "Red Bull Racing"}}

	out := DriverStandings(rows, roster)

	require.Len(t, out, 2)
	assert.Equal(t, model.DriverStanding{Position: 2, DriverName: "Driver #44", DriverNumber: 44, TeamName: "Unknown Team", Points: 350}, out[1])
	assert.Equal(t, "Max Verstappen", out[0].DriverName)
}

func TestDriverStandingsOrderAndCap(t *testing.T) {
	rows := make([]openf1.ChampionshipDriver, 0, 25)
	for pos := 25; pos >= 1; pos-- {
		rows = append(rows, openf1.ChampionshipDriver{DriverNumber: pos + 100, PositionCurrent: pos, PointsCurrent: float64(100 - pos)})
	}

	out := DriverStandings(rows, nil)

	require.Len(t, out, MaxDriverStandings)
	for i, s := range out {
		assert.Equal(t, i+1, s.Position)
	}
}

func TestDriverStandingsEmpty(t *testing.T) {
	out := DriverStandings(nil, []openf1.Driver{{DriverNumber: 1}})

	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestTeamStandingsNoCapAndTruncates(t *testing.T) {
	rows := make([]openf1.ChampionshipTeam, 0, 22)
	for pos := 22; pos >= 1; pos-- {
		rows = append(rows, openf1.ChampionshipTeam{TeamName: "T", PositionCurrent: pos, PointsCurrent: 24.5})
	}

	out := TeamStandings(rows)

	require.Len(t, out, 22)
	assert.Equal(t, 1, out[0].Position)
	assert.Equal(t, 24, out[0].Points)
}

func TestRaceResults(t *testing.T) {
	rows := []openf1.SessionResult{
		{DriverNumber: 99, Position: 3, Points: 15},
		{DriverNumber: 16, Position: 0, DNF: true},
		{DriverNumber: 1, Position: 1, Points: 25.9, Status: "Finished"},
		{DriverNumber: 44, Position: 2, Points: 18, FullName: "Lewis Hamilton", TeamName: "Mercedes"},
	}
	roster := []openf1.Driver{{DriverNumber: 1, FullName: "Max Verstappen", TeamName: "Red Bull Racing"}}

	out := RaceResults(1141, rows, roster)

	require.Len(t, out, 4)
	assert.Equal(t, []int{1, 2, 3, 0}, []int{out[0].Position, out[1].Position, out[2].Position, out[3].Position})
	assert.Equal(t, 1141, out[0].RaceID)
	assert.Equal(t, "Max Verstappen", out[0].DriverName)
	assert.Equal(t, 25, out[0].Points)
	assert.Equal(t, "Lewis Hamilton", out[1].DriverName)
	assert.Equal(t, "Mercedes", out[1].TeamName)
	assert.Equal(t, "Driver #99", out[2].DriverName)
	assert.Equal(t, "Unknown Team", out[2].TeamName)
	assert.Equal(t, "Finished", out[2].Status)
	assert.Equal(t, "DNF", out[3].Status)
}

func TestRaceResultsEmpty(t *testing.T) {
	out := RaceResults(1, []openf1.SessionResult{}, nil)

	assert.NotNil(t, out)
	assert.Empty(t, out)
}
