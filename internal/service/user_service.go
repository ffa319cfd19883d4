package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(role string, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(role, page, limit)
}

// UpdateProfile 用户只能改自己的资料字段，角色与禁用状态走管理员接口
func (s *UserService) UpdateProfile(userID uint, name, avatar, bio string) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if bio != "" {
		user.Bio = bio
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser 管理员创建任意角色用户
func (s *UserService) CreateUser(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Create(user)
}

// ResetPassword 管理员重置用户密码
func (s *UserService) ResetPassword(userID uint, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

func (s *UserService) SetRole(userID uint, role model.UserRole) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	user.Role = role
	return s.UserRepo.Update(user)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(userID, disabled)
}

func (s *UserService) Delete(userID uint) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	return s.UserRepo.Delete(userID)
}
