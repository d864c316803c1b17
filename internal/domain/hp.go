package domain

import (
	"strconv"
	"strings"
)

type HealthBand string

const (
	HealthCritical HealthBand = "critical"
	HealthBloodied HealthBand = "bloodied"
	HealthWounded  HealthBand = "wounded"
	HealthHealthy  HealthBand = "healthy"
)

// ClampHP applies a signed delta and keeps the result in [0, maxHP].
// Bounds are checked before adding so extreme deltas cannot overflow.
func ClampHP(currentHP, delta, maxHP int) int {
	if currentHP > maxHP {
		currentHP = maxHP
	}
	if currentHP < 0 {
		currentHP = 0
	}
	switch {
	case delta > maxHP-currentHP:
		return maxHP
	case delta < -currentHP:
		return 0
	}
	return currentHP + delta
}

// ParseAmount reads a damage or heal amount typed by a user. Anything that is
// not a plain integer is rejected.
func ParseAmount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Character) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.MaxHP) * 100
}

func (c *Character) HealthBand() HealthBand {
	pct := c.HPPercent()
	switch {
	case pct <= 25:
		return HealthCritical
	case pct <= 50:
		return HealthBloodied
	case pct <= 75:
		return HealthWounded
	default:
		return HealthHealthy
	}
}
