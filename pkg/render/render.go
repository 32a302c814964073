package render

import (
	"bytes"
	"fmt"
	"strings"

	"f1seasonbot/pkg/helper"
	"f1seasonbot/pkg/model"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	symbolCompleted = "✅"
	symbolUpcoming  = "⏳"

	teamWidth = 16
)

// Compact tables use driver codes and short team names so they fit a phone
// screen. Full tables are for the terminal.
type Options struct {
	Compact bool
}

func newTable(b *bytes.Buffer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(b)
	t.SetStyle(table.StyleRounded)
	return t
}

// Code wraps text in a Markdown code block.
func Code(title, body string) string {
	if title == "" {
		return fmt.Sprintf("```\n%s```", body)
	}
	return fmt.Sprintf("```\n%s\n\n%s```", title, body)
}

func statusSymbol(status string) string {
	if status == model.StatusCompleted {
		return symbolCompleted
	}
	return symbolUpcoming
}

func Races(races []model.Race, opts Options) string {
	var b bytes.Buffer
	t := newTable(&b)
	if opts.Compact {
		t.AppendHeader(table.Row{"#", "GP", "Date", ""})
	} else {
		t.AppendHeader(table.Row{"Round", "Grand Prix", "Circuit", "Country", "Date", "Status"})
	}
	for _, r := range races {
		if opts.Compact {
			t.AppendRow(table.Row{r.RoundNumber, helper.ShortGrandPrix(r.Name), r.Date.Format("02 Jan"), statusSymbol(r.Status)})
			continue
		}
		t.AppendRow(table.Row{r.RoundNumber, r.Name, r.CircuitName, r.Country, r.Date.Format("2006-01-02"), r.Status})
	}
	t.Render()
	return b.String()
}

func Race(r model.Race) string {
	return fmt.Sprintf("%s %s\n%s", statusSymbol(r.Status), r.Status, r.String())
}

func Sessions(sessions []model.Session) string {
	if len(sessions) == 0 {
		return "No sessions published yet\n"
	}
	var b bytes.Buffer
	t := newTable(&b)
	t.AppendHeader(table.Row{"Session", "Start (UTC)"})
	for _, s := range sessions {
		t.AppendRow(table.Row{s.SessionName, s.StartLabel()})
	}
	t.Render()
	return b.String()
}

func RaceDetails(d model.RaceDetails) string {
	return Race(d.Race) + "\n\n" + Sessions(d.Sessions)
}

func Schedule(s model.RaceSchedule) string {
	return s.RaceName + "\n\n" + Sessions(s.Sessions)
}

func DriverStandings(rows []model.DriverStanding, opts Options) string {
	var b bytes.Buffer
	t := newTable(&b)
	if opts.Compact {
		t.AppendHeader(table.Row{"P", "Driver", "Team", "Pts"})
	} else {
		t.AppendHeader(table.Row{"Pos", "No", "Driver", "Team", "Points"})
	}
	for _, r := range rows {
		if opts.Compact {
			t.AppendRow(table.Row{r.Position, helper.GetDriverCodeName(r.DriverName), helper.Abbreviate(r.TeamName, teamWidth), r.Points})
			continue
		}
		t.AppendRow(table.Row{r.Position, r.DriverNumber, r.DriverName, r.TeamName, r.Points})
	}
	t.Render()
	return b.String()
}

func TeamStandings(rows []model.TeamStanding, opts Options) string {
	var b bytes.Buffer
	t := newTable(&b)
	t.AppendHeader(table.Row{"Pos", "Team", "Points"})
	for _, r := range rows {
		team := r.TeamName
		if opts.Compact {
			team = helper.Abbreviate(team, teamWidth)
		}
		t.AppendRow(table.Row{r.Position, team, r.Points})
	}
	t.Render()
	return b.String()
}

func Results(rows []model.RaceResult, opts Options) string {
	var b bytes.Buffer
	t := newTable(&b)
	if opts.Compact {
		t.AppendHeader(table.Row{"P", "Driver", "Pts", ""})
	} else {
		t.AppendHeader(table.Row{"Pos", "No", "Driver", "Team", "Points", "Status"})
	}
	for _, r := range rows {
		pos := position(r.Position)
		if opts.Compact {
			t.AppendRow(table.Row{pos, helper.GetDriverCodeName(r.DriverName), r.Points, compactStatus(r.Status)})
			continue
		}
		t.AppendRow(table.Row{pos, r.DriverNumber, r.DriverName, r.TeamName, r.Points, r.Status})
	}
	t.Render()
	return b.String()
}

func position(p int) string {
	if p <= 0 {
		return "NC"
	}
	return fmt.Sprint(p)
}

func compactStatus(status string) string {
	if strings.EqualFold(status, "Finished") {
		return ""
	}
	return status
}
