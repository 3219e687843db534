package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

const relatedItemsLimit = 10

type ItemInput struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Description   *string        `json:"description"`
	Content       *string        `json:"content"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	CategoryID    *uint          `json:"category_id"`
	FeaturedImage *string        `json:"featured_image"`
	Price         *float64       `json:"price"`
	Metadata      map[string]any `json:"metadata"`
	IsFeatured    *bool          `json:"is_featured"`
	TagIDs        []uint         `json:"tag_ids"`
}

type ItemUpdateInput struct {
	Title         *string        `json:"title"`
	Slug          *string        `json:"slug"`
	Description   *string        `json:"description"`
	Content       *string        `json:"content"`
	Type          *string        `json:"type"`
	Status        *string        `json:"status"`
	CategoryID    *uint          `json:"category_id"`
	FeaturedImage *string        `json:"featured_image"`
	Price         *float64       `json:"price"`
	Metadata      map[string]any `json:"metadata"`
	IsFeatured    *bool          `json:"is_featured"`
	TagIDs        []uint         `json:"tag_ids"`
}

type ItemService interface {
	List(filter repositories.ItemFilter, page, pageSize int) ([]models.Item, Pagination, error)
	// Get returns the item and counts the view.
	Get(id uint) (*models.Item, error)
	Related(id uint) ([]models.Item, error)
	Create(userID uint, input *ItemInput) (*models.Item, error)
	Update(id uint, input *ItemUpdateInput) (*models.Item, error)
	Delete(id uint) error
	Like(id uint) (*models.Item, error)
	Share(id uint) (*models.Item, error)
}

type itemService struct {
	items repositories.ItemRepository
	tags  repositories.TagRepository
}

var _ ItemService = (*itemService)(nil)

func NewItemService(items repositories.ItemRepository, tags repositories.TagRepository) ItemService {
	return &itemService{items: items, tags: tags}
}

func (s *itemService) List(filter repositories.ItemFilter, page, pageSize int) ([]models.Item, Pagination, error) {
	page, pageSize = NormalizePage(page, pageSize)
	items, total, err := s.items.FindAll(filter, page, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(page, pageSize, total), nil
}

func (s *itemService) Get(id uint) (*models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.items.IncrementCounter(id, "view_count"); err == nil {
		item.ViewCount++
	}
	return item, nil
}

func (s *itemService) Related(id uint) ([]models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.items.FindRelated(item, relatedItemsLimit)
}

func (s *itemService) Create(userID uint, input *ItemInput) (*models.Item, error) {
	if input.Title == "" || input.Slug == "" {
		return nil, ErrValidation
	}

	if _, err := s.items.FindBySlugExcept(input.Slug, 0); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	itemType := input.Type
	if itemType == "" {
		itemType = "general"
	}
	status := input.Status
	if status == "" {
		status = models.ItemStatusDraft
	}
	if !validItemStatus(status) {
		return nil, ErrValidation
	}

	item := &models.Item{
		Title:         input.Title,
		Slug:          input.Slug,
		Description:   input.Description,
		Content:       input.Content,
		Type:          itemType,
		Status:        status,
		CategoryID:    input.CategoryID,
		UserID:        userID,
		FeaturedImage: input.FeaturedImage,
		Price:         input.Price,
		Metadata:      input.Metadata,
	}
	if input.IsFeatured != nil {
		item.IsFeatured = *input.IsFeatured
	}
	if status == models.ItemStatusPublished {
		now := time.Now()
		item.PublishedAt = &now
	}

	if err := s.items.Create(item); err != nil {
		return nil, err
	}
	if err := s.attachTags(item, input.TagIDs); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Update(id uint, input *ItemUpdateInput) (*models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Slug != nil && *input.Slug != item.Slug {
		if _, err := s.items.FindBySlugExcept(*input.Slug, id); err == nil {
			return nil, ErrSlugTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item.Slug = *input.Slug
	}
	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Content != nil {
		item.Content = input.Content
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Status != nil {
		if !validItemStatus(*input.Status) {
			return nil, ErrValidation
		}
		if *input.Status == models.ItemStatusPublished && item.Status != models.ItemStatusPublished {
			now := time.Now()
			item.PublishedAt = &now
		}
		item.Status = *input.Status
	}
	if input.CategoryID != nil {
		item.CategoryID = input.CategoryID
	}
	if input.FeaturedImage != nil {
		item.FeaturedImage = input.FeaturedImage
	}
	if input.Price != nil {
		item.Price = input.Price
	}
	if input.Metadata != nil {
		item.Metadata = input.Metadata
	}
	if input.IsFeatured != nil {
		item.IsFeatured = *input.IsFeatured
	}

	if err := s.items.Update(item); err != nil {
		return nil, err
	}
	if input.TagIDs != nil {
		if err := s.attachTags(item, input.TagIDs); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (s *itemService) Delete(id uint) error {
	item, err := s.items.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	tagIDs := make([]uint, 0, len(item.Tags))
	for _, tag := range item.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	if err := s.items.Delete(id); err != nil {
		return err
	}
	return s.tags.RecountUsage(tagIDs)
}

func (s *itemService) Like(id uint) (*models.Item, error) {
	return s.bumpCounter(id, "like_count")
}

func (s *itemService) Share(id uint) (*models.Item, error) {
	return s.bumpCounter(id, "share_count")
}

func (s *itemService) bumpCounter(id uint, column string) (*models.Item, error) {
	if _, err := s.items.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.items.IncrementCounter(id, column); err != nil {
		return nil, err
	}
	return s.items.FindByID(id)
}

// attachTags replaces the item's tags and refreshes usage counts for every
// tag that gained or lost the association.
func (s *itemService) attachTags(item *models.Item, tagIDs []uint) error {
	tags, err := s.tags.FindByIDs(tagIDs)
	if err != nil {
		return err
	}

	affected := make([]uint, 0, len(item.Tags)+len(tags))
	for _, tag := range item.Tags {
		affected = append(affected, tag.ID)
	}
	for _, tag := range tags {
		affected = append(affected, tag.ID)
	}

	if err := s.items.ReplaceTags(item, tags); err != nil {
		return err
	}
	item.Tags = tags
	return s.tags.RecountUsage(affected)
}

func validItemStatus(status string) bool {
	switch status {
	case models.ItemStatusDraft, models.ItemStatusPublished, models.ItemStatusArchived:
		return true
	}
	return false
}
