package openf1test

import (
	"strconv"
	"time"

	"f1seasonbot/pkg/openf1"
)

const Year2023 = 2023

// Meeting and race session keys of the 2023 fixture, by round.
var (
	MeetingKeys2023     = []int{1141, 1142, 1143}
	RaceSessionKeys2023 = []int{7001, 7002, 7003}
	QualiSessionKeys    = []int{6001, 6002, 6003}
	PracticeSessionKeys = []int{5001, 5002, 5003}
)

func at(month time.Month, day, hour int) *time.Time {
	t := time.Date(Year2023, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

// Season2023 loads three meetings starting Mar 1, Mar 8 and Mar 22, fed out
// of date order. Each has practice, qualifying and race sessions. Race
// sessions carry rosters and championship rows.
func (f *Feed) Season2023() *Feed {
	starts := []time.Time{
		time.Date(Year2023, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(Year2023, time.March, 8, 0, 0, 0, 0, time.UTC),
		time.Date(Year2023, time.March, 22, 0, 0, 0, 0, time.UTC),
	}
	names := []string{"Bahrain Grand Prix", "Saudi Arabian Grand Prix", "Australian Grand Prix"}
	locations := []string{"Sakhir", "Jeddah", "Melbourne"}
	countries := []string{"Bahrain", "Saudi Arabia", "Australia"}

	meetings := make([]openf1.Meeting, 3)
	for i := range meetings {
		meetings[i] = openf1.Meeting{
			MeetingKey:  MeetingKeys2023[i],
			MeetingName: names[i],
			CountryName: countries[i],
			Location:    locations[i],
			DateStart:   starts[i],
			DateEnd:     starts[i].Add(72 * time.Hour),
			Year:        Year2023,
		}

		day := starts[i].Day()
		mk := MeetingKeys2023[i]
		f.SessionsByMeeting[strconv.Itoa(mk)] = []openf1.Session{
			{SessionKey: RaceSessionKeys2023[i], MeetingKey: mk, SessionName: "Race", SessionType: "Race", DateStart: at(time.March, day+2, 15)},
			{SessionKey: PracticeSessionKeys[i], MeetingKey: mk, SessionName: "Practice 1", SessionType: "Practice", DateStart: at(time.March, day, 11)},
			{SessionKey: QualiSessionKeys[i], MeetingKey: mk, SessionName: "Qualifying", SessionType: "Qualifying", DateStart: at(time.March, day+1, 15)},
		}

		race := strconv.Itoa(RaceSessionKeys2023[i])
		f.DriversBySession[race] = Roster()
		f.DriverRows[race] = []openf1.ChampionshipDriver{
			{DriverNumber: 44, PointsCurrent: float64(10 * (i + 1)), PositionCurrent: 2},
			{DriverNumber: 1, PointsCurrent: float64(25 * (i + 1)), PositionCurrent: 1},
		}
		f.TeamRows[race] = []openf1.ChampionshipTeam{
			{TeamName: "Mercedes", PointsCurrent: float64(15 * (i + 1)), PositionCurrent: 2},
			{TeamName: "Red Bull Racing", PointsCurrent: float64(43 * (i + 1)), PositionCurrent: 1},
		}
		f.Results[race] = []openf1.SessionResult{
			{DriverNumber: 44, Position: 2, Points: 18},
			{DriverNumber: 1, Position: 1, Points: 25, Status: "Finished"},
		}
	}
	f.MeetingsByYear[Year2023] = []openf1.Meeting{meetings[1], meetings[0], meetings[2]}
	return f
}

// Roster returns the two drivers used across the fixtures.
func Roster() []openf1.Driver {
	return []openf1.Driver{
		{DriverNumber: 1, FullName: "Max Verstappen", NameAcronym: "VER", TeamName: "Red Bull Racing"},
		{DriverNumber: 44, FullName: "Lewis Hamilton", NameAcronym: "HAM", TeamName: "Mercedes"},
	}
}
