// Package styles maps categories to the badge classes, icons and chart
// colors used by the templates. Unknown categories fall back to a neutral
// style so user-defined categories always render.
package styles

import "fintrack/internal/core"

type style struct {
	Badge string
	Icon  string
	Color string
}

var known = map[string]style{
	"food":          {"badge-food", "🍔", "#f59e0b"},
	"transport":     {"badge-transport", "🚌", "#3b82f6"},
	"housing":       {"badge-housing", "🏠", "#8b5cf6"},
	"rent":          {"badge-housing", "🏠", "#8b5cf6"},
	"utilities":     {"badge-utilities", "💡", "#06b6d4"},
	"entertainment": {"badge-entertainment", "🎬", "#ec4899"},
	"health":        {"badge-health", "🏥", "#ef4444"},
	"shopping":      {"badge-shopping", "🛍️", "#d946ef"},
	"travel":        {"badge-travel", "✈️", "#14b8a6"},
	"education":     {"badge-education", "📚", "#6366f1"},
	"salary":        {"badge-income", "💼", "#22c55e"},
	"freelance":     {"badge-income", "💻", "#84cc16"},
	"investment":    {"badge-income", "📈", "#10b981"},
	"savings":       {"badge-savings", "🏦", "#0ea5e9"},
}

var fallback = style{"badge-default", "💳", "#9ca3af"}

// chartPalette colors breakdown slices for categories without a fixed color,
// assigned by position so adjacent slices stay distinguishable.
var chartPalette = []string{
	"#f59e0b", "#3b82f6", "#ec4899", "#14b8a6", "#8b5cf6",
	"#ef4444", "#22c55e", "#06b6d4", "#d946ef", "#6366f1",
}

func lookup(category string) style {
	if s, ok := known[core.NormalizeCategory(category)]; ok {
		return s
	}
	return fallback
}

// BadgeClass returns the CSS class for a category badge.
func BadgeClass(category string) string { return lookup(category).Badge }

// Icon returns the emoji shown next to a category.
func Icon(category string) string { return lookup(category).Icon }

// ChartColor returns the color for a category's chart slice. index breaks
// ties for unknown categories so two of them never share the fallback color.
func ChartColor(category string, index int) string {
	if s, ok := known[core.NormalizeCategory(category)]; ok {
		return s.Color
	}
	if index < 0 {
		index = 0
	}
	return chartPalette[index%len(chartPalette)]
}
