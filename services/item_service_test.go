package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

func newItemService(t *testing.T) (ItemService, *gorm.DB) {
	db := setupTestDB(t)
	return NewItemService(repositories.NewItemRepository(db), repositories.NewTagRepository(db)), db
}

func TestItemCreate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		svc, _ := newItemService(t)

		item, err := svc.Create(1, &ItemInput{Title: "First Post", Slug: "first-post"})
		assert.NoError(t, err)
		assert.Equal(t, "general", item.Type)
		assert.Equal(t, models.ItemStatusDraft, item.Status)
		assert.Nil(t, item.PublishedAt)
		assert.Equal(t, uint(1), item.UserID)
	})

	t.Run("Publishing stamps published_at", func(t *testing.T) {
		svc, _ := newItemService(t)

		item, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post", Status: models.ItemStatusPublished})
		assert.NoError(t, err)
		assert.NotNil(t, item.PublishedAt)
	})

	t.Run("Invalid status", func(t *testing.T) {
		svc, _ := newItemService(t)

		_, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post", Status: "live"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Duplicate slug", func(t *testing.T) {
		svc, _ := newItemService(t)

		_, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post"})
		assert.NoError(t, err)
		_, err = svc.Create(1, &ItemInput{Title: "Another", Slug: "post"})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("Tags update usage counts", func(t *testing.T) {
		svc, db := newItemService(t)

		tag := models.Tag{Name: "Go", Slug: "go"}
		assert.NoError(t, db.Create(&tag).Error)

		item, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post", TagIDs: []uint{tag.ID}})
		assert.NoError(t, err)
		assert.Len(t, item.Tags, 1)

		var stored models.Tag
		assert.NoError(t, db.First(&stored, tag.ID).Error)
		assert.Equal(t, 1, stored.UsageCount)
	})
}

func TestItemGetCountsView(t *testing.T) {
	svc, db := newItemService(t)

	item, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post"})
	assert.NoError(t, err)

	got, err := svc.Get(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	_, err = svc.Get(item.ID)
	assert.NoError(t, err)

	var stored models.Item
	assert.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, 2, stored.ViewCount)
}

func TestItemLikeAndShare(t *testing.T) {
	svc, _ := newItemService(t)

	item, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post"})
	assert.NoError(t, err)

	liked, err := svc.Like(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, liked.LikeCount)

	shared, err := svc.Share(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, shared.ShareCount)

	_, err = svc.Like(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemRelated(t *testing.T) {
	svc, db := newItemService(t)

	category := models.Category{Name: "Technology", Slug: "technology", IsActive: true}
	assert.NoError(t, db.Create(&category).Error)

	base, err := svc.Create(1, &ItemInput{
		Title: "Base", Slug: "base",
		Status: models.ItemStatusPublished, CategoryID: &category.ID,
	})
	assert.NoError(t, err)

	sameCategory, err := svc.Create(1, &ItemInput{
		Title: "Sibling", Slug: "sibling",
		Status: models.ItemStatusPublished, CategoryID: &category.ID,
	})
	assert.NoError(t, err)

	_, err = svc.Create(1, &ItemInput{
		Title: "Draft Sibling", Slug: "draft-sibling",
		CategoryID: &category.ID,
	})
	assert.NoError(t, err)

	related, err := svc.Related(base.ID)
	assert.NoError(t, err)
	assert.Len(t, related, 1)
	assert.Equal(t, sameCategory.ID, related[0].ID)
}

func TestItemUpdate(t *testing.T) {
	t.Run("Publish transition stamps published_at once", func(t *testing.T) {
		svc, _ := newItemService(t)

		item, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post"})
		assert.NoError(t, err)
		assert.Nil(t, item.PublishedAt)

		published := models.ItemStatusPublished
		updated, err := svc.Update(item.ID, &ItemUpdateInput{Status: &published})
		assert.NoError(t, err)
		assert.NotNil(t, updated.PublishedAt)

		first := *updated.PublishedAt
		again, err := svc.Update(item.ID, &ItemUpdateInput{Status: &published})
		assert.NoError(t, err)
		assert.Equal(t, first.Unix(), again.PublishedAt.Unix())
	})

	t.Run("Unknown id", func(t *testing.T) {
		svc, _ := newItemService(t)

		title := "New"
		_, err := svc.Update(42, &ItemUpdateInput{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestItemDeleteRecountsTags(t *testing.T) {
	svc, db := newItemService(t)

	tag := models.Tag{Name: "Go", Slug: "go"}
	assert.NoError(t, db.Create(&tag).Error)

	item, err := svc.Create(1, &ItemInput{Title: "Post", Slug: "post", TagIDs: []uint{tag.ID}})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(item.ID))

	var stored models.Tag
	assert.NoError(t, db.First(&stored, tag.ID).Error)
	assert.Zero(t, stored.UsageCount)

	_, err = svc.Get(item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
