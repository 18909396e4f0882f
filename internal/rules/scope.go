package rules

import "github.com/coachkit/rulekeeper/internal/types"

// ScopesOverlap reports whether two rules can ever apply to the same product.
// Rules in different categories never interact. A global scope overlaps any
// scope of its category; otherwise the product sets must intersect.
func ScopesOverlap(a, b types.Rule) bool {
	if a.Category != b.Category {
		return false
	}
	if a.Scope.IsGlobal() || b.Scope.IsGlobal() {
		return true
	}
	return intersects(a.Scope.Products, b.Scope.Products)
}

// sharedProducts returns the products both scopes name; nil when either is global.
func sharedProducts(a, b types.Scope) []types.ProductID {
	if a.IsGlobal() || b.IsGlobal() {
		return nil
	}
	return common(a.Products, b.Products)
}
