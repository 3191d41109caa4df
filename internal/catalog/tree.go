// Package catalog builds the navigation tree from the flat category table.
package catalog

import (
	"sort"
	"strings"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

// Level of the category hierarchy. The tree is fixed at three levels;
// construction terminates at LevelSub and is not generalized further.
type Level int

const (
	LevelRoot Level = iota // macro-category, parent_id null
	LevelCategory
	LevelSub
)

// Node is the derived tree representation. Root nodes carry Categories,
// mid-level nodes carry SubCategories, leaves carry neither.
type Node struct {
	ID            int64   `json:"id"`
	LabelIta      string  `json:"label_ita"`
	LabelEng      string  `json:"label_eng"`
	Categories    *[]Node `json:"categories,omitempty"`
	SubCategories *[]Node `json:"sub_categories,omitempty"`
}

// BuildTree assembles the 3-level ordered tree from all categories.
// Sibling lists at every level are sorted alphabetically, case
// insensitively, by the label of the requested language. Categories whose
// parent chain never reaches a root, or whose type does not match the
// level implied by their parent, are silently excluded: validating the
// table is not this builder's job.
func BuildTree(categories []domain.Category, lang string) []Node {
	return build(categories, LevelRoot, nil, lang)
}

func build(categories []domain.Category, level Level, parentID *int64, lang string) []Node {
	branch := []Node{}
	for _, c := range categories {
		if c.Type != int(level) || !sameParent(c.ParentID, parentID) {
			continue
		}
		n := Node{ID: c.ID, LabelIta: c.LabelIta, LabelEng: c.LabelEng}
		switch level {
		case LevelRoot:
			children := build(categories, LevelCategory, &c.ID, lang)
			n.Categories = &children
		case LevelCategory:
			children := build(categories, LevelSub, &c.ID, lang)
			n.SubCategories = &children
		case LevelSub:
			// leaf
		}
		branch = append(branch, n)
	}
	sortSiblings(branch, lang)
	return branch
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// sortSiblings orders a sibling list by lowercased label, byte order.
// Deliberately not locale-collation aware.
func sortSiblings(branch []Node, lang string) {
	sort.SliceStable(branch, func(i, j int) bool {
		return strings.ToLower(label(branch[i], lang)) < strings.ToLower(label(branch[j], lang))
	})
}

func label(n Node, lang string) string {
	if lang == "ita" {
		return n.LabelIta
	}
	return n.LabelEng
}
