package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/date-course/api-go/models"
	"github.com/date-course/api-go/types"
	"github.com/date-course/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAccountService(db *gorm.DB, jwtSecret []byte, tokenTTL time.Duration) *AccountService {
	return &AccountService{db: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates the user with a zero balance together with the default
// collection.
func (s *AccountService) Register(ctx context.Context, req types.SignupRequest) (*models.User, error) {
	nickname := strings.TrimSpace(req.Nickname)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if nickname == "" {
		return nil, invalid("nickname", "nickname is required")
	}
	if email == "" {
		return nil, invalid("email", "email is required")
	}
	if len(req.Password) < 6 {
		return nil, invalid("password", "password must be at least 6 characters")
	}

	user := &models.User{
		Nickname: nickname,
		Email:    email,
		Name:     req.Name,
		Gender:   req.Gender,
		Points:   0,
	}
	if req.BirthDate != "" {
		day, err := time.Parse(selectedDateLayout, req.BirthDate)
		if err != nil {
			return nil, invalid("birth_date", "birth_date must look like %s", selectedDateLayout)
		}
		user.BirthDate = &day
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("nickname or email already registered: %w", ErrConflict)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		favorites := &models.Collection{
			UserID:         user.ID,
			CollectionName: types.DEFAULT_COLLECTION_NAME,
			Description:    types.DEFAULT_COLLECTION_DESCRIPTION,
			IsPublic:       false,
		}
		if err := tx.Create(favorites).Error; err != nil {
			return fmt.Errorf("create default collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues an access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, user.IsAdmin, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &user, nil
}

func (s *AccountService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	return s.available(ctx, "nickname", strings.TrimSpace(nickname))
}

func (s *AccountService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return s.available(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (s *AccountService) available(ctx context.Context, column, value string) (bool, error) {
	if value == "" {
		return false, invalid(column, "%s is required", column)
	}
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return count == 0, nil
}

func (s *AccountService) Profile(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &user, nil
}
