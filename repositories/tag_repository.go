package repositories

import (
	"genapi/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *models.Tag) error
	FindByID(id uint) (*models.Tag, error)
	FindByIDs(ids []uint) ([]models.Tag, error)
	FindBySlugExcept(slug string, excludeID uint) (*models.Tag, error)
	Update(tag *models.Tag) error
	Delete(id uint) error
	FindAll(search string, page, pageSize int) ([]models.Tag, int64, error)
	FindPopular(limit int) ([]models.Tag, error)
	RecountUsage(ids []uint) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) FindByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindBySlugExcept(slug string, excludeID uint) (*models.Tag, error) {
	var tag models.Tag
	query := r.db.Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Update(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

func (r *tagRepository) Delete(id uint) error {
	if err := r.db.Where("tag_id = ?", id).Delete(&models.ItemTag{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Tag{}, id).Error
}

func (r *tagRepository) FindAll(search string, page, pageSize int) ([]models.Tag, int64, error) {
	query := r.db.Model(&models.Tag{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tags []models.Tag
	offset := (page - 1) * pageSize
	err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&tags).Error
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *tagRepository) FindPopular(limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("usage_count DESC, name ASC").Limit(limit).Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// RecountUsage refreshes usage_count for the given tags from the join table.
func (r *tagRepository) RecountUsage(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Tag{}).Where("id IN ?", ids).
		UpdateColumn("usage_count", gorm.Expr(
			"(SELECT COUNT(*) FROM item_tags WHERE item_tags.tag_id = tags.id)",
		)).Error
}
