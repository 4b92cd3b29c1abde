package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TierPolicy holds the tier thresholds and the benefit catalog keyed by tier name.
type TierPolicy struct {
	Thresholds TierThresholds            `yaml:"thresholds"`
	Benefits   map[string]TierBenefitSet `yaml:"benefits"`
}

type TierThresholds struct {
	Silver   int `yaml:"silver"`
	Gold     int `yaml:"gold"`
	Platinum int `yaml:"platinum"`
}

type TierBenefitSet struct {
	PointsMultiplier   float64 `yaml:"points_multiplier" json:"points_multiplier"`
	DiscountPercentage int     `yaml:"discount_percentage" json:"discount_percentage"`
	PrioritySupport    bool    `yaml:"priority_support" json:"priority_support"`
	FreeShipping       bool    `yaml:"free_shipping" json:"free_shipping"`
	ExclusiveAccess    bool    `yaml:"exclusive_access" json:"exclusive_access"`
}

func DefaultTierPolicy(cfg *Config) *TierPolicy {
	return &TierPolicy{
		Thresholds: TierThresholds{
			Silver:   cfg.TierSilverThreshold,
			Gold:     cfg.TierGoldThreshold,
			Platinum: cfg.TierPlatinumThreshold,
		},
		Benefits: map[string]TierBenefitSet{
			"bronze":   {PointsMultiplier: 1.0, DiscountPercentage: 5},
			"silver":   {PointsMultiplier: 1.5, DiscountPercentage: 10, FreeShipping: true},
			"gold":     {PointsMultiplier: 2.0, DiscountPercentage: 15, PrioritySupport: true, FreeShipping: true},
			"platinum": {PointsMultiplier: 3.0, DiscountPercentage: 20, PrioritySupport: true, FreeShipping: true, ExclusiveAccess: true},
		},
	}
}

// LoadTierPolicy returns the built-in policy, overridden by cfg.TierPolicyFile when set.
// Tiers missing from the file keep their built-in benefits.
func LoadTierPolicy(cfg *Config) (*TierPolicy, error) {
	policy := DefaultTierPolicy(cfg)
	if cfg.TierPolicyFile == "" {
		return policy, nil
	}

	data, err := os.ReadFile(cfg.TierPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier policy: %w", err)
	}

	var override TierPolicy
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse tier policy: %w", err)
	}

	if override.Thresholds != (TierThresholds{}) {
		policy.Thresholds = override.Thresholds
	}
	for tier, benefits := range override.Benefits {
		policy.Benefits[tier] = benefits
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

func (p *TierPolicy) Validate() error {
	t := p.Thresholds
	if t.Silver <= 0 || t.Gold <= t.Silver || t.Platinum <= t.Gold {
		return fmt.Errorf("tier thresholds must be strictly increasing and positive: silver=%d gold=%d platinum=%d", t.Silver, t.Gold, t.Platinum)
	}
	return nil
}
