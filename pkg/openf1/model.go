package openf1

import (
	"sort"
	"time"
)

// LatestSessionKey asks OpenF1 for the most recent session it knows about.
const LatestSessionKey = "latest"

type Meeting struct {
	MeetingKey  int       `json:"meeting_key"`
	MeetingName string    `json:"meeting_name"`
	CountryName string    `json:"country_name"`
	Location    string    `json:"location"`
	DateStart   time.Time `json:"date_start"`
	DateEnd     time.Time `json:"date_end"`
	Year        int       `json:"year"`
}

type Session struct {
	SessionKey  int        `json:"session_key"`
	MeetingKey  int        `json:"meeting_key"`
	SessionName string     `json:"session_name"`
	SessionType string     `json:"session_type"`
	DateStart   *time.Time `json:"date_start"`
	DateEnd     *time.Time `json:"date_end"`
}

// StartedBefore orders undated sessions first.
func (s Session) StartedBefore(o Session) bool {
	if s.DateStart == nil {
		return o.DateStart != nil
	}
	if o.DateStart == nil {
		return false
	}
	return s.DateStart.Before(*o.DateStart)
}

// MostRecent returns the session with the latest start. On equal starts the
// later element of the slice wins.
func MostRecent(sessions []Session) (Session, bool) {
	if len(sessions) == 0 {
		return Session{}, false
	}
	best := sessions[0]
	for _, s := range sessions[1:] {
		if !s.StartedBefore(best) {
			best = s
		}
	}
	return best, true
}

// ByStartDesc returns a copy sorted most recent first, undated last.
func ByStartDesc(sessions []Session) []Session {
	sorted := make([]Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].StartedBefore(sorted[i])
	})
	return sorted
}

type Driver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	NameAcronym  string `json:"name_acronym"`
	TeamName     string `json:"team_name"`
	MeetingKey   *int   `json:"meeting_key"`
	SessionKey   *int   `json:"session_key"`
}

type ChampionshipDriver struct {
	DriverNumber    int     `json:"driver_number"`
	PointsCurrent   float64 `json:"points_current"`
	PositionCurrent int     `json:"position_current"`
	MeetingKey      int     `json:"meeting_key"`
	SessionKey      int     `json:"session_key"`
}

type ChampionshipTeam struct {
	TeamName        string  `json:"team_name"`
	PointsCurrent   float64 `json:"points_current"`
	PositionCurrent int     `json:"position_current"`
	MeetingKey      int     `json:"meeting_key"`
	SessionKey      int     `json:"session_key"`
}

type SessionResult struct {
	DriverNumber int     `json:"driver_number"`
	FullName     string  `json:"full_name"`
	TeamName     string  `json:"team_name"`
	Position     int     `json:"position"`
	Points       float64 `json:"points"`
	Status       string  `json:"status"`
	DNF          bool    `json:"dnf"`
	DNS          bool    `json:"dns"`
	DSQ          bool    `json:"dsq"`
	MeetingKey   int     `json:"meeting_key"`
	SessionKey   int     `json:"session_key"`
}
