package apps

import (
	"strconv"

	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/settings"
)

// MaxRoundArg is the highest bare number read as a round rather than a year.
const MaxRoundArg = 24

// SeasonArgs is a parsed "[year] [round]" argument list. A nil Year means the
// current season.
type SeasonArgs struct {
	Year  *int
	Round *int
}

// ParseSeasonArgs reads up to two numbers. A single number is a year when it
// is a valid season and a round in 1..24 otherwise. With two numbers
// whichever one is a valid season is the year. Without an explicit year the
// user's pinned history year applies. ok is false when the arguments make no
// sense.
func ParseSeasonArgs(args []string, mode settings.Mode, currentYear int) (SeasonArgs, bool) {
	var pinned *int
	if mode.Historical {
		y := mode.Year
		pinned = &y
	}

	if len(args) == 0 {
		return SeasonArgs{Year: pinned}, true
	}

	first, err := strconv.Atoi(args[0])
	if err != nil {
		return SeasonArgs{}, false
	}

	if len(args) == 1 {
		if model.ValidYear(first, currentYear) {
			return SeasonArgs{Year: &first}, true
		}
		if first >= 1 && first <= MaxRoundArg {
			return SeasonArgs{Year: pinned, Round: &first}, true
		}
		return SeasonArgs{}, false
	}

	second, err := strconv.Atoi(args[1])
	if err != nil {
		return SeasonArgs{}, false
	}
	switch {
	case model.ValidYear(first, currentYear):
		return SeasonArgs{Year: &first, Round: &second}, true
	case model.ValidYear(second, currentYear):
		return SeasonArgs{Year: &second, Round: &first}, true
	default:
		return SeasonArgs{}, false
	}
}
