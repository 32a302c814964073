package model

import (
	"fmt"
	"time"
)

const (
	StatusUpcoming  = "Upcoming"
	StatusCompleted = "Completed"

	SessionTypeRace       = "Race"
	SessionTypeQualifying = "Qualifying"
)

// Meeting is one race weekend of a season as the calendar sees it. Round is
// assigned by ascending start date within the season.
type Meeting struct {
	Key       int       `json:"meetingKey"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Country   string    `json:"country"`
	Year      int       `json:"year"`
	Round     int       `json:"round"`
	DateStart time.Time `json:"dateStart"`
	DateEnd   time.Time `json:"dateEnd"`
}

// StatusAt derives the meeting status from its end timestamp.
func StatusAt(end, now time.Time) string {
	if end.Before(now) {
		return StatusCompleted
	}
	return StatusUpcoming
}

// Race projects the meeting for output, computing its status against now.
func (m Meeting) Race(now time.Time) Race {
	return Race{
		ID:          m.Key,
		Name:        m.Name,
		CircuitName: m.Location,
		City:        m.Location,
		Country:     m.Country,
		RoundNumber: m.Round,
		Date:        m.DateStart,
		Status:      StatusAt(m.DateEnd, now),
	}
}

type Race struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	CircuitName string    `json:"circuitName"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	RoundNumber int       `json:"roundNumber"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
}

func (r Race) String() string {
	return fmt.Sprintf("  ▸ %s\n  ▸ %s, %s\n  ▸ %s\n  ▸ Round %d", r.Name, r.CircuitName, r.Country, r.Date.Format("02 January 2006"), r.RoundNumber)
}

type Session struct {
	SessionType string     `json:"sessionType"`
	SessionName string     `json:"sessionName"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

// StartLabel renders the start time or TBA when the feed has none.
func (s Session) StartLabel() string {
	if s.StartTime == nil {
		return "TBA"
	}
	return s.StartTime.Format("02 Jan 15:04")
}

type RaceSchedule struct {
	RaceID   int       `json:"raceId"`
	RaceName string    `json:"raceName"`
	Sessions []Session `json:"sessions"`
}

type RaceDetails struct {
	Race
	Sessions []Session `json:"sessions"`
}

type DriverStanding struct {
	Position     int    `json:"position"`
	DriverName   string `json:"driverName"`
	DriverNumber int    `json:"driverNumber"`
	TeamName     string `json:"teamName"`
	Points       int    `json:"points"`
}

type TeamStanding struct {
	Position int    `json:"position"`
	TeamName string `json:"teamName"`
	Points   int    `json:"points"`
}

type RaceResult struct {
	RaceID       int    `json:"raceId"`
	Position     int    `json:"position"`
	DriverName   string `json:"driverName"`
	DriverNumber int    `json:"driverNumber"`
	TeamName     string `json:"teamName"`
	Points       int    `json:"points"`
	Status       string `json:"status"`
}
