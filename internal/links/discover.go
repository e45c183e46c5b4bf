package links

import (
	"context"
	"log/slog"
)

// DefaultMaxDepth bounds the breadth-first traversal. Reference chains
// deeper than this are rare and each level multiplies fetch cost.
const DefaultMaxDepth = 3

// FetchFunc retrieves the body of an issue. An empty body with a nil error
// means the issue exists but has nothing to extract from.
type FetchFunc func(ctx context.Context, owner, repo string, number int) (string, error)

// Discoverer walks the issue reference graph rooted at a PR body.
type Discoverer struct {
	fetch    FetchFunc
	maxDepth int
	logger   *slog.Logger
}

// NewDiscoverer creates a Discoverer. A maxDepth of zero or less selects
// DefaultMaxDepth.
func NewDiscoverer(fetch FetchFunc, maxDepth int, logger *slog.Logger) *Discoverer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Discoverer{
		fetch:    fetch,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// batch is one BFS frontier: the issues extracted from a single body,
// together with the depth they were found at.
type batch struct {
	issues Set
	depth  int
}

// Discover returns the transitive closure of issues referenced by prBody,
// bounded by the configured depth. Reference graphs can contain cycles
// (A references B, B references A); the visited set guarantees termination.
// A failed fetch abandons that branch of the traversal but keeps the issue
// itself in the result.
func (d *Discoverer) Discover(ctx context.Context, prBody, owner, repo string) Set {
	all := make(Set)
	visited := make(Set)

	var queue []batch
	if seed := ExtractLinks(prBody); seed.Len() > 0 {
		queue = append(queue, batch{issues: seed, depth: 0})
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, num := range current.issues.Sorted() {
			if visited.Has(num) {
				continue
			}
			visited.Add(num)
			all.Add(num)

			if current.depth >= d.maxDepth {
				continue
			}

			body, err := d.fetch(ctx, owner, repo, num)
			if err != nil {
				d.logger.Warn("issue fetch failed, skipping branch",
					"issue", num,
					"depth", current.depth,
					"error", err,
				)
				continue
			}
			if body == "" {
				continue
			}

			if next := ExtractLinks(body); next.Len() > 0 {
				queue = append(queue, batch{issues: next, depth: current.depth + 1})
			}
		}
	}

	return all
}
