package flash

import (
	"github.com/bethropolis/gotoflash/internal/host"
	"github.com/bethropolis/gotoflash/internal/linter"
)

// ErrorsTouching returns the errors of v's file that touch offset, in index order.
func ErrorsTouching(store *linter.Store, v host.View, offset int, mode TouchMode) []linter.ErrorRecord {
	var touching []linter.ErrorRecord
	for _, e := range store.FileErrors(linter.CanonicalFilename(v)) {
		switch mode {
		case TouchContains:
			if e.Region.Contains(offset) {
				touching = append(touching, e)
			}
		default:
			if e.Region.Begin == offset {
				touching = append(touching, e)
			}
		}
	}
	return touching
}

// widestRegion returns the region with the largest end. Among equal ends the
// last one in iteration order wins.
func widestRegion(errs []linter.ErrorRecord) (host.Region, bool) {
	if len(errs) == 0 {
		return host.Region{}, false
	}
	widest := errs[0].Region
	for _, e := range errs[1:] {
		if e.Region.End >= widest.End {
			widest = e.Region
		}
	}
	return widest, true
}
