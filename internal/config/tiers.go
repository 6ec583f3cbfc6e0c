package config

import "github.com/theirongolddev/tripvault/internal/model"

// TierTable maps a pricing tier to the multiplier applied to every
// itinerary-derived cost.
type TierTable map[model.Tier]float64

// DefaultTiers holds the stock multipliers.
var DefaultTiers = TierTable{
	model.TierBudget:   0.85,
	model.TierStandard: 1.0,
	model.TierLuxury:   1.25,
}

// Lookup returns the multiplier for tier, reporting whether it is known.
func (t TierTable) Lookup(tier model.Tier) (float64, bool) {
	m, ok := t[tier]
	return m, ok
}

// Multiplier returns the multiplier for tier, falling back to 1 for
// unknown tiers.
func (t TierTable) Multiplier(tier model.Tier) float64 {
	if m, ok := t.Lookup(tier); ok {
		return m
	}
	return 1
}

// WithOverrides returns a copy of t with the positive overrides applied.
func (t TierTable) WithOverrides(o TierOverrides) TierTable {
	out := make(TierTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	set := func(tier model.Tier, v *float64) {
		if v != nil && *v > 0 {
			out[tier] = *v
		}
	}
	set(model.TierBudget, o.Budget)
	set(model.TierStandard, o.Standard)
	set(model.TierLuxury, o.Luxury)
	return out
}
