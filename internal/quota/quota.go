// Package quota implements the subscription-tier policy governing how many
// records a user may keep in cloud sync. The policy is a pure function: no
// I/O, no clock, no side effects, so callers can evaluate it anywhere.
package quota

import "fmt"

// Tier is the subscription level attached to a user account.
type Tier string

const (
	TierFree     Tier = "free"
	TierPlus     Tier = "plus"
	TierPlusPlus Tier = "plusPlus"
)

// Limits per tier. The free tier has no cloud sync at all.
const (
	LimitFree     = 0
	LimitPlus     = 100
	LimitPlusPlus = 1000
)

// Result is the policy verdict for one (tier, count) pair. When Allowed is
// false, Message carries a human-readable reason suitable for the status
// surface; it is advisory, not an error.
type Result struct {
	Allowed bool
	Limit   int
	Message string
}

// Check decides whether a user on the given tier may upload with the given
// number of local records. Unknown tiers are treated as free: deny rather
// than guess a limit.
func Check(tier Tier, count int) Result {
	limit := limitFor(tier)

	if tier != TierPlus && tier != TierPlusPlus {
		return Result{
			Allowed: false,
			Limit:   limit,
			Message: "cloud sync is not included in the free plan",
		}
	}

	if count > limit {
		return Result{
			Allowed: false,
			Limit:   limit,
			Message: fmt.Sprintf("%d records exceed the %s plan limit of %d", count, tier, limit),
		}
	}

	return Result{Allowed: true, Limit: limit}
}

func limitFor(tier Tier) int {
	switch tier {
	case TierPlus:
		return LimitPlus
	case TierPlusPlus:
		return LimitPlusPlus
	default:
		return LimitFree
	}
}
