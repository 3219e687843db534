package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

func newCategoryService(t *testing.T) (CategoryService, *gorm.DB) {
	db := setupTestDB(t)
	return NewCategoryService(repositories.NewCategoryRepository(db)), db
}

func uintPtr(v uint) *uint { return &v }
func strPtr(v string) *string { return &v }

func TestBuildCategoryTree(t *testing.T) {
	mk := func(id uint, parentID *uint, name string) models.Category {
		c := models.Category{Name: name, ParentID: parentID}
		c.ID = id
		return c
	}

	t.Run("Nests children under parents", func(t *testing.T) {
		flat := []models.Category{
			mk(1, nil, "Electronics"),
			mk(2, uintPtr(1), "Phones"),
			mk(3, uintPtr(1), "Laptops"),
			mk(4, uintPtr(2), "Smartphones"),
		}

		tree := BuildCategoryTree(flat)

		assert.Len(t, tree, 1)
		assert.Equal(t, uint(1), tree[0].ID)
		assert.Len(t, tree[0].Children, 2)
		assert.Equal(t, uint(2), tree[0].Children[0].ID)
		assert.Equal(t, uint(3), tree[0].Children[1].ID)
		assert.Len(t, tree[0].Children[0].Children, 1)
		assert.Equal(t, uint(4), tree[0].Children[0].Children[0].ID)
		assert.Empty(t, tree[0].Children[1].Children)
	})

	t.Run("Leaves have empty children instead of null", func(t *testing.T) {
		tree := BuildCategoryTree([]models.Category{mk(1, nil, "Root")})

		assert.Len(t, tree, 1)
		assert.NotNil(t, tree[0].Children)
		assert.Empty(t, tree[0].Children)
	})

	t.Run("Empty input yields empty tree", func(t *testing.T) {
		tree := BuildCategoryTree(nil)
		assert.NotNil(t, tree)
		assert.Empty(t, tree)
	})

	t.Run("Cyclic parent chain terminates", func(t *testing.T) {
		// 1 and 2 point at each other and neither is a root.
		flat := []models.Category{
			mk(1, uintPtr(2), "A"),
			mk(2, uintPtr(1), "B"),
			mk(3, nil, "Root"),
		}

		tree := BuildCategoryTree(flat)

		assert.Len(t, tree, 1)
		assert.Equal(t, uint(3), tree[0].ID)
	})
}

func TestCategoryCRUD(t *testing.T) {
	t.Run("Create and fetch", func(t *testing.T) {
		svc, _ := newCategoryService(t)

		created, err := svc.Create(&CategoryInput{Name: "Technology", Slug: "technology"})
		assert.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.True(t, created.IsActive)

		fetched, err := svc.Get(created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Technology", fetched.Name)
	})

	t.Run("Missing name or slug", func(t *testing.T) {
		svc, _ := newCategoryService(t)

		_, err := svc.Create(&CategoryInput{Slug: "technology"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.Create(&CategoryInput{Name: "Technology"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Duplicate slug", func(t *testing.T) {
		svc, _ := newCategoryService(t)

		_, err := svc.Create(&CategoryInput{Name: "Technology", Slug: "technology"})
		assert.NoError(t, err)
		_, err = svc.Create(&CategoryInput{Name: "Tech Again", Slug: "technology"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("Update keeps own slug", func(t *testing.T) {
		svc, _ := newCategoryService(t)

		created, err := svc.Create(&CategoryInput{Name: "Technology", Slug: "technology"})
		assert.NoError(t, err)

		updated, err := svc.Update(created.ID, &CategoryUpdateInput{Name: strPtr("Tech"), Slug: strPtr("technology")})
		assert.NoError(t, err)
		assert.Equal(t, "Tech", updated.Name)
	})

	t.Run("Update to a taken slug", func(t *testing.T) {
		svc, _ := newCategoryService(t)

		_, err := svc.Create(&CategoryInput{Name: "Technology", Slug: "technology"})
		assert.NoError(t, err)
		other, err := svc.Create(&CategoryInput{Name: "Business", Slug: "business"})
		assert.NoError(t, err)

		_, err = svc.Update(other.ID, &CategoryUpdateInput{Slug: strPtr("technology")})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("Delete removes direct children", func(t *testing.T) {
		svc, db := newCategoryService(t)

		parent, err := svc.Create(&CategoryInput{Name: "Technology", Slug: "technology"})
		assert.NoError(t, err)
		child, err := svc.Create(&CategoryInput{Name: "Gadgets", Slug: "gadgets", ParentID: &parent.ID})
		assert.NoError(t, err)

		assert.NoError(t, svc.Delete(parent.ID))

		var count int64
		db.Model(&models.Category{}).Where("id IN ?", []uint{parent.ID, child.ID}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Unknown id", func(t *testing.T) {
		svc, _ := newCategoryService(t)

		_, err := svc.Get(99)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, svc.Delete(99), ErrNotFound)
	})
}

func TestCategoryTreeFromStore(t *testing.T) {
	svc, _ := newCategoryService(t)

	root, err := svc.Create(&CategoryInput{Name: "Technology", Slug: "technology", SortOrder: 1})
	assert.NoError(t, err)
	_, err = svc.Create(&CategoryInput{Name: "Gadgets", Slug: "gadgets", ParentID: &root.ID, SortOrder: 2})
	assert.NoError(t, err)
	_, err = svc.Create(&CategoryInput{Name: "AI", Slug: "ai", ParentID: &root.ID, SortOrder: 1})
	assert.NoError(t, err)

	tree, err := svc.Tree()
	assert.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Len(t, tree[0].Children, 2)
	// Children follow sort_order.
	assert.Equal(t, "AI", tree[0].Children[0].Name)
	assert.Equal(t, "Gadgets", tree[0].Children[1].Name)
}
