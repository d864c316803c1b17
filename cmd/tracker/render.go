package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dom/combat-tracker/internal/domain"
	"github.com/dom/combat-tracker/internal/tracker"
)

var (
	turnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E40AF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#991B1B"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("#1E40AF"))

	healthColors = map[domain.HealthBand]lipgloss.Color{
		domain.HealthCritical: lipgloss.Color("#991B1B"),
		domain.HealthBloodied: lipgloss.Color("#B91C1C"),
		domain.HealthWounded:  lipgloss.Color("#1E40AF"),
		domain.HealthHealthy:  lipgloss.Color("#15803D"),
	}
)

// Roster table columns styled on their own.
const (
	colHP     = 6
	colStatus = 7
)

func renderSession(s *tracker.Session) string {
	order := s.Order()
	if len(order) == 0 {
		return mutedStyle.Render("No Characters in Combat")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderTurnIndicator(s),
		renderRoster(s),
	)
}

func renderTurnIndicator(s *tracker.Session) string {
	current, ok := s.Current()
	if !ok {
		return ""
	}
	state := s.State()
	return lipgloss.JoinVertical(lipgloss.Left,
		turnStyle.Render(fmt.Sprintf("%s's Turn", current.Name)),
		mutedStyle.Render(fmt.Sprintf("Round %d • Initiative Order %d/%d", state.Round, state.Turn+1, len(s.Order()))),
	)
}

func renderRoster(s *tracker.Session) string {
	order := s.Order()
	rows := make([][]string, 0, len(order))
	for _, c := range order {
		marker := ""
		if s.IsActive(c.ID) {
			marker = "▶"
		}
		rows = append(rows, []string{
			marker,
			strconv.Itoa(c.ID),
			c.Name,
			characterDetail(c),
			strconv.Itoa(c.InitiativeValue()),
			optionalInt(c.AC),
			fmt.Sprintf("%d/%d", c.CurrentHP, c.MaxHP),
			c.Status,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers("", "ID", "Name", "", "Init", "AC", "HP", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(order) {
				return cellStyle
			}
			c := order[row]
			switch {
			case col == colHP:
				return cellStyle.Foreground(healthColors[c.HealthBand()])
			case col == colStatus:
				return statusStyle.Padding(0, 1)
			case s.IsActive(c.ID):
				return activeStyle
			}
			return cellStyle
		})

	return t.Render()
}

// characterDetail is "Fighter Level 5" for a PC and "Grumpy CR 0.5" for an NPC.
func characterDetail(c *domain.Character) string {
	var parts []string
	if c.IsPC() {
		if c.Class != nil && *c.Class != "" {
			parts = append(parts, *c.Class)
		}
		if c.Level != nil {
			parts = append(parts, fmt.Sprintf("Level %d", *c.Level))
		}
	} else {
		if c.Description != nil && *c.Description != "" {
			parts = append(parts, *c.Description)
		}
		if c.CR != nil {
			parts = append(parts, "CR "+strconv.FormatFloat(*c.CR, 'f', -1, 64))
		}
	}
	return strings.Join(parts, " ")
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func renderConditions(conditions []domain.Condition) string {
	rows := make([][]string, 0, len(conditions))
	for _, c := range conditions {
		rows = append(rows, []string{c.Name, c.Description})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers("Condition", "Effect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return statusStyle.Padding(0, 1)
			}
			return cellStyle.Width(72)
		}).
		Render()
}

func renderError(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}
