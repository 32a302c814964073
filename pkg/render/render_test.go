package render

import (
	"testing"
	"time"

	"f1seasonbot/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestRacesCompact(t *testing.T) {
	races := []model.Race{
		{Name: "Bahrain Grand Prix", RoundNumber: 1, Date: time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), Status: model.StatusCompleted},
		{Name: "Australian Grand Prix", RoundNumber: 3, Date: time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC), Status: model.StatusUpcoming},
	}

	out := Races(races, Options{Compact: true})

	assert.Contains(t, out, "Bahrain")
	assert.NotContains(t, out, "Grand Prix")
	assert.Contains(t, out, "05 Mar")
	assert.Contains(t, out, symbolCompleted)
	assert.Contains(t, out, symbolUpcoming)
}

func TestDriverStandingsFullAndCompact(t *testing.T) {
	rows := []model.DriverStanding{
		{Position: 1, DriverName: "Max Verstappen", DriverNumber: 1, TeamName: "Red Bull Racing", Points: 575},
		{Position: 2, DriverName: "Driver #44", DriverNumber: 44, TeamName: "Unknown Team", Points: 350},
	}

	full := DriverStandings(rows, Options{})
	compact := DriverStandings(rows, Options{Compact: true})

	assert.Contains(t, full, "Max Verstappen")
	assert.Contains(t, full, "Unknown Team")
	assert.Contains(t, compact, "MVE")
	assert.Contains(t, compact, "#44")
	assert.Contains(t, compact, "575")
}

func TestResultsUnclassified(t *testing.T) {
	out := Results([]model.RaceResult{{Position: 0, DriverName: "Lando Norris", Status: "DNF"}}, Options{Compact: true})

	assert.Contains(t, out, "NC")
	assert.Contains(t, out, "DNF")
}

func TestSessionsEmptyAndTBA(t *testing.T) {
	assert.Contains(t, Sessions(nil), "No sessions")
	assert.Contains(t, Sessions([]model.Session{{SessionName: "Race"}}), "TBA")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "```\nbody```", Code("", "body"))
	assert.Equal(t, "```\nTitle\n\nbody```", Code("Title", "body"))
}
