// Package guard protects images and other media during text rewrites. A
// rewrite rebuilds a unit's runs from scratch, which silently drops any
// drawing anchored inside them; the guard snapshots media-bearing units
// before the rewrite and rolls them back when media goes missing.
package guard

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/agrangetas/Doc-reviewer/internal/document"
	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// Backup is a deep structural snapshot of one unit's XML element. It is
// single use: Restore splices the snapshot itself back into the tree.
type Backup struct {
	el *xmlquery.Node
}

// TakeBackup deep-copies the unit's element.
func TakeBackup(u *document.Unit) (*Backup, error) {
	if u == nil || u.Element() == nil {
		return nil, types.NewAppError(types.ErrBackup, "unit has no element to back up", nil)
	}
	return &Backup{el: document.CloneNode(u.Element())}, nil
}

// Restore replaces the unit's live element with the snapshot.
func (b *Backup) Restore(u *document.Unit) {
	u.ReplaceElement(b.el)
}

// HasMedia reports whether the unit carries media: a drawing or pict
// element in a Word run, a blip anywhere inside a PowerPoint run.
func HasMedia(u *document.Unit) bool {
	return unitMediaCount(u) > 0
}

// CountMedia counts media across units and returns the 1-based numbers of
// the units that carry any.
func CountMedia(units []*document.Unit) (int, []int) {
	total := 0
	var withMedia []int
	for i, u := range units {
		n := unitMediaCount(u)
		if n > 0 {
			total += n
			withMedia = append(withMedia, i+1)
		}
	}
	return total, withMedia
}

func unitMediaCount(u *document.Unit) int {
	n := 0
	for _, r := range u.RunElements() {
		n += runMediaCount(r, u.Kind())
	}
	return n
}

func runMediaCount(r *xmlquery.Node, kind types.DocumentKind) int {
	n := 0
	switch kind {
	case types.DocumentWord:
		for c := r.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if strings.Contains(c.Data, "drawing") || strings.Contains(c.Data, "pict") {
				n++
			}
		}
	case types.DocumentPowerPoint:
		n = countDescendants(r, "blip")
	}
	return n
}

func countDescendants(n *xmlquery.Node, local string) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			count++
		}
		count += countDescendants(c, local)
	}
	return count
}

// GuardedRewrite runs rewrite on the unit. Units without media are
// rewritten directly. Units with media are snapshotted first and restored
// whenever the rewrite fails, panics, or comes back without its media;
// a media loss reports kept=false with no error so the caller can count
// the unit as reverted. Panics are re-raised after the restore.
func GuardedRewrite(u *document.Unit, rewrite func() error) (kept bool, err error) {
	if !HasMedia(u) {
		if err := rewrite(); err != nil {
			return false, err
		}
		return true, nil
	}

	before := unitMediaCount(u)
	backup, err := TakeBackup(u)
	if err != nil {
		return false, err
	}

	defer func() {
		if r := recover(); r != nil {
			backup.Restore(u)
			logger.Error("rewrite panicked, unit restored", nil,
				logger.Int("unit", u.Index()),
				logger.Any("panic", r))
			panic(r)
		}
	}()

	if err := rewrite(); err != nil {
		backup.Restore(u)
		return false, err
	}

	after := unitMediaCount(u)
	if after < before {
		backup.Restore(u)
		logger.Warn("media lost during rewrite, unit restored",
			logger.Int("unit", u.Index()),
			logger.Int("before", before),
			logger.Int("after", after))
		return false, nil
	}
	return true, nil
}
