package services

import (
	"errors"

	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

const popularTagsLimit = 20

type TagInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type TagUpdateInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type TagService interface {
	List(search string, page, pageSize int) ([]models.Tag, Pagination, error)
	Get(id uint) (*models.Tag, error)
	Popular() ([]models.Tag, error)
	Create(input *TagInput) (*models.Tag, error)
	Update(id uint, input *TagUpdateInput) (*models.Tag, error)
	Delete(id uint) error
}

type tagService struct {
	tags repositories.TagRepository
}

var _ TagService = (*tagService)(nil)

func NewTagService(tags repositories.TagRepository) TagService {
	return &tagService{tags: tags}
}

func (s *tagService) List(search string, page, pageSize int) ([]models.Tag, Pagination, error) {
	page, pageSize = NormalizePage(page, pageSize)
	tags, total, err := s.tags.FindAll(search, page, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}
	return tags, NewPagination(page, pageSize, total), nil
}

func (s *tagService) Get(id uint) (*models.Tag, error) {
	tag, err := s.tags.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Popular() ([]models.Tag, error) {
	return s.tags.FindPopular(popularTagsLimit)
}

func (s *tagService) Create(input *TagInput) (*models.Tag, error) {
	if input.Name == "" || input.Slug == "" {
		return nil, ErrValidation
	}

	if _, err := s.tags.FindBySlugExcept(input.Slug, 0); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &models.Tag{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.tags.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Update(id uint, input *TagUpdateInput) (*models.Tag, error) {
	tag, err := s.tags.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Slug != nil && *input.Slug != tag.Slug {
		if _, err := s.tags.FindBySlugExcept(*input.Slug, id); err == nil {
			return nil, ErrSlugTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tag.Slug = *input.Slug
	}
	if input.Name != nil {
		tag.Name = *input.Name
	}
	if input.Description != nil {
		tag.Description = input.Description
	}
	if input.Color != nil {
		tag.Color = input.Color
	}

	if err := s.tags.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Delete(id uint) error {
	if _, err := s.tags.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.tags.Delete(id)
}
