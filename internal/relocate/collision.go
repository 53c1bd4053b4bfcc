package relocate

import (
	"fmt"

	"github.com/arvidsson/crateorganizer/internal/util"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// detectCollisions rejects every source whose computed target is shared
// with another source. It returns the surviving src->dest map and a
// per-source TargetCollision error for every rejected entry. Equality
// respects the target filesystem's case sensitivity (util.PathsEqual), so
// "Foo.mp3" and "foo.mp3" collide on a case-insensitive volume even though
// the strings differ.
func detectCollisions(targets map[string]string, caseSensitive bool) (map[string]string, map[string]error) {
	byTarget := make(map[string][]string, len(targets))
	for src, dest := range targets {
		key := util.NormalizePath(dest, caseSensitive)
		byTarget[key] = append(byTarget[key], src)
	}

	ok := make(map[string]string, len(targets))
	failed := make(map[string]error)
	for key, sources := range byTarget {
		if len(sources) > 1 {
			for _, src := range sources {
				failed[src] = fmt.Errorf("%w: %d items target %q", xerr.TargetCollision, len(sources), key)
			}
			continue
		}
		ok[sources[0]] = targets[sources[0]]
	}
	return ok, failed
}
