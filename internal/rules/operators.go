// internal/rules/operators.go
package rules

/*
 * Set comparison logic.
 *
 * Criteria sets (goals, activity levels, injuries, products) are compared
 * with four operators. Inputs are expected to be normalized (sorted,
 * deduplicated) by Compile; membership checks do not rely on ordering,
 * sameSet does.
 *
 * Empty-set semantics are NOT applied here: "empty means no restriction"
 * is a matching rule (match.go), while for classification an empty set is
 * simply the smallest set. Keeping the operators literal avoids mixing the
 * two meanings.
 */

// containsValue reports whether v is a member of set.
func containsValue[T comparable](set []T, v T) bool {
	for _, elem := range set {
		if elem == v {
			return true
		}
	}
	return false
}

// intersects reports whether a and b share at least one element.
func intersects[T comparable](a, b []T) bool {
	for _, elem := range a {
		if containsValue(b, elem) {
			return true
		}
	}
	return false
}

// subsetOf reports whether every element of sub is in super.
// The empty set is a subset of everything.
func subsetOf[T comparable](sub, super []T) bool {
	for _, elem := range sub {
		if !containsValue(super, elem) {
			return false
		}
	}
	return true
}

// sameSet compares two normalized sets element-wise.
func sameSet[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// difference returns the elements of a missing from b, preserving a's order.
func difference[T comparable](a, b []T) []T {
	var out []T
	for _, elem := range a {
		if !containsValue(b, elem) {
			out = append(out, elem)
		}
	}
	return out
}

// common returns the elements present in both, preserving a's order.
func common[T comparable](a, b []T) []T {
	var out []T
	for _, elem := range a {
		if containsValue(b, elem) {
			out = append(out, elem)
		}
	}
	return out
}
