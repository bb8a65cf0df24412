// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affiliation

// Unknown is assigned when no coauthor resolves to an affiliation. It is
// always present in the university table.
const Unknown = "Unknown University"

// Resolver assigns an author the plurality affiliation of their coauthors.
type Resolver struct {
	matcher Matcher
}

// NewResolver returns a Resolver backed by m.
func NewResolver(m Matcher) *Resolver {
	return &Resolver{matcher: m}
}

// Resolve votes over coauthors, skipping the author itself. Each coauthor
// that matches contributes one vote. The most voted affiliation wins; ties
// go to the affiliation whose first vote came earliest in coauthor order.
// Duplicate coauthor keys vote once.
func (r *Resolver) Resolve(authorKey string, coauthors []string) string {
	counts := make(map[string]int)
	var order []string
	seen := make(map[string]bool, len(coauthors))

	for _, co := range coauthors {
		if co == authorKey || seen[co] {
			continue
		}
		seen[co] = true

		uni, ok := r.matcher.Match(co)
		if !ok {
			continue
		}
		if _, voted := counts[uni]; !voted {
			order = append(order, uni)
		}
		counts[uni]++
	}

	winner, best := Unknown, 0
	for _, uni := range order {
		if counts[uni] > best {
			winner, best = uni, counts[uni]
		}
	}
	return winner
}
