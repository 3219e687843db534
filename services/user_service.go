package services

import (
	"errors"

	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

// AdminPermissionLevel is the tier from which user management on other
// accounts is allowed.
const AdminPermissionLevel = 5

type UserUpdateInput struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	MobilePhone     *string `json:"mobile_phone"`
	Avatar          *string `json:"avatar"`
	Bio             *string `json:"bio"`
	PermissionLevel *int    `json:"permission_level"`
	UserTypeID      *uint   `json:"user_type_id"`
}

// Actor identifies who is performing a user-management operation.
type Actor struct {
	UserID          uint
	PermissionLevel int
}

func (a Actor) isAdmin() bool {
	return a.PermissionLevel >= AdminPermissionLevel
}

type UserService interface {
	List(actor Actor, page, pageSize int) ([]models.User, Pagination, error)
	Get(actor Actor, id uint) (*models.User, error)
	Update(actor Actor, id uint, input *UserUpdateInput) (*models.User, error)
	Delete(actor Actor, id uint) error
	SetActive(actor Actor, id uint, active bool) (*models.User, error)
	// UserTypes lists the active account tiers, e.g. for registration forms.
	UserTypes() ([]models.UserType, error)
}

type userService struct {
	users     repositories.UserRepository
	sessions  repositories.SessionRepository
	userTypes repositories.UserTypeRepository
}

var _ UserService = (*userService)(nil)

func NewUserService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	userTypes repositories.UserTypeRepository,
) UserService {
	return &userService{users: users, sessions: sessions, userTypes: userTypes}
}

func (s *userService) List(actor Actor, page, pageSize int) ([]models.User, Pagination, error) {
	if !actor.isAdmin() {
		return nil, Pagination{}, ErrForbidden
	}
	page, pageSize = NormalizePage(page, pageSize)
	users, total, err := s.users.FindAll(page, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, NewPagination(page, pageSize, total), nil
}

func (s *userService) Get(actor Actor, id uint) (*models.User, error) {
	if actor.UserID != id && !actor.isAdmin() {
		return nil, ErrForbidden
	}
	return s.find(id)
}

func (s *userService) Update(actor Actor, id uint, input *UserUpdateInput) (*models.User, error) {
	if actor.UserID != id && !actor.isAdmin() {
		return nil, ErrForbidden
	}
	// Only admins may move permission tiers or user types.
	if (input.PermissionLevel != nil || input.UserTypeID != nil) && !actor.isAdmin() {
		return nil, ErrForbidden
	}

	user, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := s.users.FindByUsername(*input.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *input.Username
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.users.FindByEmail(*input.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.MobilePhone != nil {
		user.MobilePhone = input.MobilePhone
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.PermissionLevel != nil {
		user.PermissionLevel = *input.PermissionLevel
	}
	if input.UserTypeID != nil {
		user.UserTypeID = input.UserTypeID
	}

	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(actor Actor, id uint) error {
	if !actor.isAdmin() {
		return ErrForbidden
	}
	user, err := s.find(id)
	if err != nil {
		return err
	}
	// Sessions cascade with the user row, but delete them explicitly so the
	// tokens die even without foreign key support.
	if err := s.sessions.DeleteByUser(id); err != nil {
		return err
	}
	return s.users.Delete(user)
}

func (s *userService) SetActive(actor Actor, id uint, active bool) (*models.User, error) {
	if !actor.isAdmin() {
		return nil, ErrForbidden
	}
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	if err := s.users.SetActive(id, active); err != nil {
		return nil, err
	}
	if !active {
		// A deactivated account keeps no live sessions.
		if err := s.sessions.DeleteByUser(id); err != nil {
			return nil, err
		}
	}
	return s.find(id)
}

func (s *userService) UserTypes() ([]models.UserType, error) {
	return s.userTypes.FindAll()
}

func (s *userService) find(id uint) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
