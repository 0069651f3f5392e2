package styles

import "testing"

func TestKnownCategory(t *testing.T) {
	if got := BadgeClass("Food"); got != "badge-food" {
		t.Errorf("BadgeClass(Food) = %q", got)
	}
	if got := BadgeClass("  TRAVEL "); got != "badge-travel" {
		t.Errorf("BadgeClass normalization: %q", got)
	}
	if got := Icon("salary"); got != "💼" {
		t.Errorf("Icon(salary) = %q", got)
	}
	if got := ChartColor("health", 7); got != "#ef4444" {
		t.Errorf("ChartColor(health) = %q", got)
	}
}

func TestUnknownCategoryFallback(t *testing.T) {
	if got := BadgeClass("Llama Grooming"); got != "badge-default" {
		t.Errorf("BadgeClass = %q", got)
	}
	if got := Icon("Llama Grooming"); got != "💳" {
		t.Errorf("Icon = %q", got)
	}
	// Unknown categories take palette colors by position.
	a := ChartColor("Llama Grooming", 0)
	b := ChartColor("Alpaca Grooming", 1)
	if a == b {
		t.Errorf("adjacent unknown categories share color %q", a)
	}
}
