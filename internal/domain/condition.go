package domain

import "strings"

// StatusNone is the sentinel clients send for "no condition". It is stored as "".
const StatusNone = "none"

type Condition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var conditions = []Condition{
	{"Blinded", "Cannot see and takes -2 penalty to AC, loses Dex bonus to AC, -4 penalty on Search checks and most Str and Dex-based skill checks."},
	{"Confused", "Cannot act normally, roll d% to determine action each round."},
	{"Dazed", "Unable to act, can take no actions, -2 to AC, loses Dex bonus to AC."},
	{"Dazzled", "-1 penalty on attack rolls and sight-based Perception checks."},
	{"Deafened", "-4 penalty on initiative, automatically fails Perception checks based on sound."},
	{"Entangled", "Movement reduced by half, -2 penalty to attack rolls, -4 penalty to Dex."},
	{"Exhausted", "Move at half speed, -6 to Str and Dex, cannot run or charge."},
	{"Fatigued", "-2 penalty to Str and Dex, cannot run or charge."},
	{"Frightened", "-2 penalty on attack rolls, saving throws, skill checks, and ability checks, must flee from source."},
	{"Nauseated", "Can only take a single move action per turn, cannot attack, cast spells, or concentrate."},
	{"Panicked", "Drop items, flee from source, -2 on all checks and saves."},
	{"Paralyzed", "Cannot move or act, effective Dex and Str of 0, flying creatures fall."},
	{"Prone", "-4 penalty on attack rolls, +4 AC bonus vs ranged, -4 AC penalty vs melee."},
	{"Shaken", "-2 penalty on attack rolls, saving throws, skill checks, and ability checks."},
	{"Sickened", "-2 penalty on attack rolls, weapon damage rolls, saving throws, skill checks, and ability checks."},
	{"Stunned", "Drop items held, -2 to AC, lose Dex bonus to AC."},
}

var conditionsByName = func() map[string]string {
	m := make(map[string]string, len(conditions))
	for _, c := range conditions {
		m[c.Name] = c.Description
	}
	return m
}()

// Conditions returns the vocabulary in display order.
func Conditions() []Condition {
	out := make([]Condition, len(conditions))
	copy(out, conditions)
	return out
}

func ConditionDescription(name string) (string, bool) {
	desc, ok := conditionsByName[name]
	return desc, ok
}

// IsValidStatus reports whether status is empty or a known condition.
func IsValidStatus(status string) bool {
	if status == "" {
		return true
	}
	_, ok := conditionsByName[status]
	return ok
}

func NormalizeStatus(status string) string {
	if strings.EqualFold(status, StatusNone) {
		return ""
	}
	return status
}
