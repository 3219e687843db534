package repositories

import (
	"genapi/models"

	"gorm.io/gorm"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Status     string
	Type       string
	CategoryID *uint
	Search     string
	Featured   *bool
}

type ItemRepository interface {
	Create(item *models.Item) error
	FindByID(id uint) (*models.Item, error)
	FindBySlugExcept(slug string, excludeID uint) (*models.Item, error)
	Update(item *models.Item) error
	Delete(id uint) error
	FindAll(filter ItemFilter, page, pageSize int) ([]models.Item, int64, error)
	// FindRelated returns published items sharing the category, excluding the
	// item itself.
	FindRelated(item *models.Item, limit int) ([]models.Item, error)
	ReplaceTags(item *models.Item, tags []models.Tag) error
	IncrementCounter(id uint, column string) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepository) FindByID(id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.Preload("Tags").Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindBySlugExcept(slug string, excludeID uint) (*models.Item, error) {
	var item models.Item
	query := r.db.Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Update(item *models.Item) error {
	return r.db.Save(item).Error
}

func (r *itemRepository) Delete(id uint) error {
	if err := r.db.Where("item_id = ?", id).Delete(&models.ItemTag{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Item{}, id).Error
}

func (r *itemRepository) FindAll(filter ItemFilter, page, pageSize int) ([]models.Item, int64, error) {
	query := r.db.Model(&models.Item{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	offset := (page - 1) * pageSize
	err := query.Preload("Tags").Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *itemRepository) FindRelated(item *models.Item, limit int) ([]models.Item, error) {
	var related []models.Item
	query := r.db.Where("id <> ? AND status = ?", item.ID, models.ItemStatusPublished)
	if item.CategoryID != nil {
		query = query.Where("category_id = ?", *item.CategoryID)
	} else {
		query = query.Where("type = ?", item.Type)
	}
	err := query.Order("view_count DESC").Limit(limit).Find(&related).Error
	if err != nil {
		return nil, err
	}
	return related, nil
}

func (r *itemRepository) ReplaceTags(item *models.Item, tags []models.Tag) error {
	return r.db.Model(item).Association("Tags").Replace(tags)
}

func (r *itemRepository) IncrementCounter(id uint, column string) error {
	return r.db.Model(&models.Item{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}
