package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

func ptr(v int64) *int64 { return &v }

func cat(id int64, ita, eng string, typ int, parent *int64) domain.Category {
	return domain.Category{ID: id, LabelIta: ita, LabelEng: eng, Type: typ, ParentID: parent}
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := BuildTree(nil, "eng")
	require.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestBuildTreeThreeLevels(t *testing.T) {
	cats := []domain.Category{
		cat(1, "Giocattoli", "Toys", 0, nil),
		cat(2, "Action figure", "Action figures", 1, ptr(1)),
		cat(3, "Marvel", "Marvel", 2, ptr(2)),
		cat(4, "DC", "DC", 2, ptr(2)),
	}
	tree := BuildTree(cats, "eng")
	require.Len(t, tree, 1)

	root := tree[0]
	assert.Equal(t, int64(1), root.ID)
	require.NotNil(t, root.Categories)
	require.Len(t, *root.Categories, 1)

	mid := (*root.Categories)[0]
	assert.Equal(t, int64(2), mid.ID)
	require.NotNil(t, mid.SubCategories)
	require.Len(t, *mid.SubCategories, 2)

	leaf := (*mid.SubCategories)[0]
	assert.Nil(t, leaf.Categories)
	assert.Nil(t, leaf.SubCategories)
}

func TestBuildTreeSortCaseInsensitive(t *testing.T) {
	cats := []domain.Category{
		cat(1, "zeta", "zeta", 0, nil),
		cat(2, "Alfa", "Alfa", 0, nil),
		cat(3, "beta", "beta", 0, nil),
	}
	tree := BuildTree(cats, "eng")
	require.Len(t, tree, 3)
	assert.Equal(t, "Alfa", tree[0].LabelEng)
	assert.Equal(t, "beta", tree[1].LabelEng)
	assert.Equal(t, "zeta", tree[2].LabelEng)
}

func TestBuildTreeSortByLanguage(t *testing.T) {
	cats := []domain.Category{
		cat(1, "Zaino", "Backpack", 0, nil),
		cat(2, "Auto", "Car", 0, nil),
	}

	eng := BuildTree(cats, "eng")
	require.Len(t, eng, 2)
	assert.Equal(t, "Backpack", eng[0].LabelEng)

	ita := BuildTree(cats, "ita")
	require.Len(t, ita, 2)
	assert.Equal(t, "Auto", ita[0].LabelIta)
}

func TestBuildTreeExcludesOrphans(t *testing.T) {
	cats := []domain.Category{
		cat(1, "Radice", "Root", 0, nil),
		cat(2, "Orfano", "Orphan", 1, ptr(99)), // parent does not exist
	}
	tree := BuildTree(cats, "eng")
	require.Len(t, tree, 1)
	require.NotNil(t, tree[0].Categories)
	assert.Empty(t, *tree[0].Categories)
}

func TestBuildTreeExcludesLevelSkips(t *testing.T) {
	// a sub-category attached directly to a root never appears
	cats := []domain.Category{
		cat(1, "Radice", "Root", 0, nil),
		cat(2, "Salto", "Skip", 2, ptr(1)),
	}
	tree := BuildTree(cats, "eng")
	require.Len(t, tree, 1)
	require.NotNil(t, tree[0].Categories)
	assert.Empty(t, *tree[0].Categories)
}

func TestNodeJSONShape(t *testing.T) {
	cats := []domain.Category{
		cat(1, "Radice", "Root", 0, nil),
		cat(2, "Media", "Mid", 1, ptr(1)),
		cat(3, "Foglia", "Leaf", 2, ptr(2)),
	}
	tree := BuildTree(cats, "eng")
	raw, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)

	root := decoded[0]
	assert.Contains(t, root, "categories")
	assert.NotContains(t, root, "sub_categories")

	mid := root["categories"].([]any)[0].(map[string]any)
	assert.Contains(t, mid, "sub_categories")
	assert.NotContains(t, mid, "categories")

	leaf := mid["sub_categories"].([]any)[0].(map[string]any)
	assert.NotContains(t, leaf, "categories")
	assert.NotContains(t, leaf, "sub_categories")
}

func TestNodeJSONEmptyChildrenPresent(t *testing.T) {
	// empty branches serialize as [] rather than disappearing
	cats := []domain.Category{cat(1, "Radice", "Root", 0, nil)}
	raw, err := json.Marshal(BuildTree(cats, "eng"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":1,"label_ita":"Radice","label_eng":"Root","categories":[]}]`,
		string(raw))
}
