package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/tartampluch/go-cadence/internal/config"
)

// ImportContact is one member of a bulk-import batch, before a first
// reminder has been assigned.
type ImportContact struct {
	ID         string
	Name       string
	Cadence    Cadence
	CustomDays int
	Birthday   *Birthday
}

// DistributedContact pairs an imported contact with its computed first
// reminder. Cadence and custom interval are carried through unchanged.
type DistributedContact struct {
	ImportContact
	NextReminder time.Time
}

// Distribute spreads a bulk import across each cadence period so a batch of
// N contacts does not produce N reminders on the same day.
//
// Contacts are grouped by cadence in stable input order. A group of size g
// with period P days assigns the i-th member an offset of floor(i × P/g)
// days from the reference instant; a singleton gets offset 0. When g
// exceeds P the spacing floors to 0 and several contacts share a day;
// accepted, not an error.
//
// All custom-cadence contacts form one group regardless of their individual
// intervals; the group is spaced by the first member's interval, or 30 days
// when that member has none.
func Distribute(batch []ImportContact, from time.Time) []DistributedContact {
	if len(batch) == 0 {
		return nil
	}

	groups := make(map[Cadence][]int)
	var order []Cadence
	for i, c := range batch {
		if _, seen := groups[c.Cadence]; !seen {
			order = append(order, c.Cadence)
		}
		groups[c.Cadence] = append(groups[c.Cadence], i)
	}

	out := make([]DistributedContact, len(batch))
	for _, cad := range order {
		members := groups[cad]
		period := groupPeriodDays(cad, batch[members[0]].CustomDays)
		spacing := float64(period) / float64(len(members))

		for i, j := range members {
			offsetDays := 0
			if len(members) > 1 {
				offsetDays = int(math.Floor(float64(i) * spacing))
			}
			out[j] = DistributedContact{
				ImportContact: batch[j],
				NextReminder:  from.Add(time.Duration(offsetDays) * Day),
			}
		}

		slog.Debug(config.MsgDistributed,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyCadence, string(cad),
			config.LogKeyCount, len(members),
		)
	}
	return out
}

// groupPeriodDays returns the spacing unit for one import group.
func groupPeriodDays(c Cadence, firstCustomDays int) int {
	if c == CadenceCustom {
		if firstCustomDays < 1 {
			return config.DefaultCustomSpacingDays
		}
		return firstCustomDays
	}
	days, _ := PeriodDays(c, 0)
	return days
}
