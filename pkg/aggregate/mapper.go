package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
)

const (
	MaxDriverStandings = 20

	UnknownTeam    = "Unknown Team"
	StatusFinished = "Finished"
	statusDNF      = "DNF"
	statusDNS      = "DNS"
	statusDSQ      = "DSQ"
)

// PlaceholderName stands in for a driver missing from the roster.
func PlaceholderName(number int) string {
	return fmt.Sprintf("Driver #%d", number)
}

// Lookup indexes a roster by driver number. The first entry for a number wins.
func Lookup(drivers []openf1.Driver) map[int]openf1.Driver {
	byNumber := make(map[int]openf1.Driver, len(drivers))
	for _, d := range drivers {
		if _, ok := byNumber[d.DriverNumber]; !ok {
			byNumber[d.DriverNumber] = d
		}
	}
	return byNumber
}

// points truncates toward zero.
func points(p float64) int {
	return int(math.Trunc(p))
}

// DriverStandings orders rows by position, keeps the top 20 and joins names
// and teams from the roster.
func DriverStandings(rows []openf1.ChampionshipDriver, roster []openf1.Driver) []model.DriverStanding {
	if len(rows) == 0 {
		return []model.DriverStanding{}
	}

	sorted := make([]openf1.ChampionshipDriver, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PositionCurrent < sorted[j].PositionCurrent
	})
	if len(sorted) > MaxDriverStandings {
		sorted = sorted[:MaxDriverStandings]
	}

	byNumber := Lookup(roster)
	out := make([]model.DriverStanding, 0, len(sorted))
	for _, r := range sorted {
		s := model.DriverStanding{
			Position:     r.PositionCurrent,
			DriverNumber: r.DriverNumber,
			DriverName:   PlaceholderName(r.DriverNumber),
			TeamName:     UnknownTeam,
			Points:       points(r.PointsCurrent),
		}
		if d, ok := byNumber[r.DriverNumber]; ok {
			s.DriverName = d.FullName
			s.TeamName = d.TeamName
		}
		out = append(out, s)
	}
	return out
}

// TeamStandings orders rows by position. No cap, no roster join.
func TeamStandings(rows []openf1.ChampionshipTeam) []model.TeamStanding {
	if len(rows) == 0 {
		return []model.TeamStanding{}
	}

	sorted := make([]openf1.ChampionshipTeam, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PositionCurrent < sorted[j].PositionCurrent
	})

	out := make([]model.TeamStanding, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, model.TeamStanding{
			Position: r.PositionCurrent,
			TeamName: r.TeamName,
			Points:   points(r.PointsCurrent),
		})
	}
	return out
}

// RaceResults orders rows by position and joins the roster. Unclassified rows
// (no position) go last. A name carried by the row itself beats the
// placeholder.
func RaceResults(raceID int, rows []openf1.SessionResult, roster []openf1.Driver) []model.RaceResult {
	if len(rows) == 0 {
		return []model.RaceResult{}
	}

	sorted := make([]openf1.SessionResult, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Position, sorted[j].Position
		if pi <= 0 || pj <= 0 {
			return pi > 0 && pj <= 0
		}
		return pi < pj
	})

	byNumber := Lookup(roster)
	out := make([]model.RaceResult, 0, len(sorted))
	for _, r := range sorted {
		res := model.RaceResult{
			RaceID:       raceID,
			Position:     r.Position,
			DriverNumber: r.DriverNumber,
			DriverName:   firstNonBlank(r.FullName, PlaceholderName(r.DriverNumber)),
			TeamName:     firstNonBlank(r.TeamName, UnknownTeam),
			Points:       points(r.Points),
			Status:       resultStatus(r),
		}
		if d, ok := byNumber[r.DriverNumber]; ok {
			res.DriverName = d.FullName
			res.TeamName = d.TeamName
		}
		out = append(out, res)
	}
	return out
}

func resultStatus(r openf1.SessionResult) string {
	switch {
	case strings.TrimSpace(r.Status) != "":
		return r.Status
	case r.DSQ:
		return statusDSQ
	case r.DNS:
		return statusDNS
	case r.DNF:
		return statusDNF
	}
	return StatusFinished
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
