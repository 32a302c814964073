// Package openf1test provides an in-memory OpenF1 feed for tests.
package openf1test

import (
	"context"
	"sync"

	"f1seasonbot/pkg/openf1"
)

// Feed answers from its maps and counts every call. Unknown keys answer with
// an empty slice, like the real client does on failure.
type Feed struct {
	MeetingsByYear    map[int][]openf1.Meeting
	SessionsByMeeting map[string][]openf1.Session
	DriversBySession  map[string][]openf1.Driver
	DriverRows        map[string][]openf1.ChampionshipDriver
	TeamRows          map[string][]openf1.ChampionshipTeam
	Results           map[string][]openf1.SessionResult
	LatestSessions    []openf1.Session

	mu           sync.Mutex
	calls        map[string]int
	sessionTypes []string
}

func NewFeed() *Feed {
	return &Feed{
		MeetingsByYear:    map[int][]openf1.Meeting{},
		SessionsByMeeting: map[string][]openf1.Session{},
		DriversBySession:  map[string][]openf1.Driver{},
		DriverRows:        map[string][]openf1.ChampionshipDriver{},
		TeamRows:          map[string][]openf1.ChampionshipTeam{},
		Results:           map[string][]openf1.SessionResult{},
		calls:             map[string]int{},
	}
}

func (f *Feed) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

// Calls returns how many times method was called.
func (f *Feed) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *Feed) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// SessionTypes returns the session_type filters requested, in call order.
func (f *Feed) SessionTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sessionTypes))
	copy(out, f.sessionTypes)
	return out
}

func (f *Feed) Meetings(ctx context.Context, year int) []openf1.Meeting {
	f.record("Meetings")
	return clone(f.MeetingsByYear[year])
}

func (f *Feed) DriverChampionship(ctx context.Context, sessionKey string) []openf1.ChampionshipDriver {
	f.record("DriverChampionship")
	return clone(f.DriverRows[sessionKey])
}

func (f *Feed) TeamChampionship(ctx context.Context, sessionKey string) []openf1.ChampionshipTeam {
	f.record("TeamChampionship")
	return clone(f.TeamRows[sessionKey])
}

func (f *Feed) Drivers(ctx context.Context, sessionKey string) []openf1.Driver {
	f.record("Drivers")
	return clone(f.DriversBySession[sessionKey])
}

func (f *Feed) Sessions(ctx context.Context, sessionType, meetingKey string) []openf1.Session {
	f.record("Sessions")
	f.mu.Lock()
	f.sessionTypes = append(f.sessionTypes, sessionType)
	f.mu.Unlock()

	source := f.SessionsByMeeting[meetingKey]
	if meetingKey == openf1.LatestSessionKey {
		source = f.LatestSessions
	}
	out := []openf1.Session{}
	for _, s := range source {
		if sessionType == "" || s.SessionType == sessionType {
			out = append(out, s)
		}
	}
	return out
}

func (f *Feed) SessionResults(ctx context.Context, sessionKey string) []openf1.SessionResult {
	f.record("SessionResults")
	return clone(f.Results[sessionKey])
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
