package model

// Plan tiers. A deactivated tenant keeps its row with is_active = false.
const (
	PlanBasic = "basic"
	PlanPro   = "pro"
)

// ValidPlan reports whether s names a purchasable plan tier.
func ValidPlan(s string) bool {
	return s == PlanBasic || s == PlanPro
}
