package services

import (
	"errors"

	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

// maxTreeDepth bounds tree recursion. Parent chains are not checked for
// cycles on write, so a corrupted chain would otherwise recurse forever.
const maxTreeDepth = 32

type CategoryInput struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description"`
	ParentID    *uint          `json:"parent_id"`
	SortOrder   int            `json:"sort_order"`
	IsActive    *bool          `json:"is_active"`
	Metadata    map[string]any `json:"metadata"`
}

type CategoryUpdateInput struct {
	Name        *string        `json:"name"`
	Slug        *string        `json:"slug"`
	Description *string        `json:"description"`
	ParentID    *uint          `json:"parent_id"`
	SortOrder   *int           `json:"sort_order"`
	IsActive    *bool          `json:"is_active"`
	Metadata    map[string]any `json:"metadata"`
}

type CategoryService interface {
	List(filter repositories.CategoryFilter, page, pageSize int) ([]models.Category, Pagination, error)
	Get(id uint) (*models.Category, error)
	Create(input *CategoryInput) (*models.Category, error)
	Update(id uint, input *CategoryUpdateInput) (*models.Category, error)
	Delete(id uint) error
	Tree() ([]*models.CategoryNode, error)
}

type categoryService struct {
	categories repositories.CategoryRepository
}

var _ CategoryService = (*categoryService)(nil)

func NewCategoryService(categories repositories.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) List(filter repositories.CategoryFilter, page, pageSize int) ([]models.Category, Pagination, error) {
	page, pageSize = NormalizePage(page, pageSize)
	categories, total, err := s.categories.FindAll(filter, page, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}
	return categories, NewPagination(page, pageSize, total), nil
}

func (s *categoryService) Get(id uint) (*models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Create(input *CategoryInput) (*models.Category, error) {
	if input.Name == "" || input.Slug == "" {
		return nil, ErrValidation
	}

	if _, err := s.categories.FindBySlugExcept(input.Slug, 0); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	category := &models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		ParentID:    input.ParentID,
		SortOrder:   input.SortOrder,
		IsActive:    isActive,
		Metadata:    input.Metadata,
	}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(id uint, input *CategoryUpdateInput) (*models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Slug != nil && *input.Slug != category.Slug {
		if _, err := s.categories.FindBySlugExcept(*input.Slug, id); err == nil {
			return nil, ErrSlugTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Slug = *input.Slug
	}
	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ParentID != nil {
		category.ParentID = input.ParentID
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.Metadata != nil {
		category.Metadata = input.Metadata
	}

	if err := s.categories.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category and its direct children.
func (s *categoryService) Delete(id uint) error {
	if _, err := s.categories.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.categories.DeleteChildren(id); err != nil {
		return err
	}
	return s.categories.Delete(id)
}

// Tree loads all categories and groups children under their parents. Roots are
// categories without a parent.
func (s *categoryService) Tree() ([]*models.CategoryNode, error) {
	categories, err := s.categories.FindAllOrdered()
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}

// BuildCategoryTree nests a flat category list by parent id. Recursion stops
// at maxTreeDepth, so a cyclic parent chain yields a truncated branch instead
// of unbounded recursion.
func BuildCategoryTree(categories []models.Category) []*models.CategoryNode {
	return buildSubtree(categories, nil, 0)
}

func buildSubtree(categories []models.Category, parentID *uint, depth int) []*models.CategoryNode {
	nodes := []*models.CategoryNode{}
	if depth >= maxTreeDepth {
		return nodes
	}
	for _, category := range categories {
		if !sameParent(category.ParentID, parentID) {
			continue
		}
		id := category.ID
		node := &models.CategoryNode{
			Category: category,
			Children: buildSubtree(categories, &id, depth+1),
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
