package repositories

import (
	"genapi/models"

	"gorm.io/gorm"
)

// CategoryFilter narrows category listings. RootsOnly selects rows without a
// parent; ParentID is ignored when RootsOnly is set.
type CategoryFilter struct {
	ParentID  *uint
	RootsOnly bool
	Search    string
}

type CategoryRepository interface {
	Create(category *models.Category) error
	FindByID(id uint) (*models.Category, error)
	// FindBySlugExcept finds a category with the slug, ignoring excludeID when
	// non-zero. Used for uniqueness checks on create and update.
	FindBySlugExcept(slug string, excludeID uint) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	DeleteChildren(parentID uint) error
	FindAll(filter CategoryFilter, page, pageSize int) ([]models.Category, int64, error)
	// FindAllOrdered returns every category ordered by sort order then name,
	// as input for tree construction.
	FindAllOrdered() ([]models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlugExcept(slug string, excludeID uint) (*models.Category, error) {
	var category models.Category
	query := r.db.Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}

func (r *categoryRepository) DeleteChildren(parentID uint) error {
	return r.db.Where("parent_id = ?", parentID).Delete(&models.Category{}).Error
}

func (r *categoryRepository) FindAll(filter CategoryFilter, page, pageSize int) ([]models.Category, int64, error) {
	query := r.db.Model(&models.Category{})
	if filter.RootsOnly {
		query = query.Where("parent_id IS NULL")
	} else if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []models.Category
	offset := (page - 1) * pageSize
	err := query.Order("sort_order ASC, name ASC").Offset(offset).Limit(pageSize).Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *categoryRepository) FindAllOrdered() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("sort_order ASC, name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
