package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/tahaafzal5/zero2prod/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errInvalidCredentials = errors.New("invalid username or password")
	errOperatorExists     = errors.New("an operator account already exists")
)

// dummyHash is compared against when the username does not exist, so the
// lookup miss and a wrong password take comparable time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Login validates operator credentials and returns the operator ID. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *Service) Login(username, password, ip string) (string, error) {
	var u models.UserModel
	err := s.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", errInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up operator: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", errInvalidCredentials
	}

	// The audit fields are best effort; a failed write must not block the
	// login, but it must not vanish silently either.
	now := time.Now()
	err = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	}).Error
	if err != nil {
		s.log.Warn("failed to record last login",
			zap.String("username", username),
			zap.Error(err),
		)
	}
	return u.ID, nil
}

// Register creates the operator account. Only the first account can be
// created this way.
func (s *Service) Register(username, password string) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errOperatorExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := models.UserModel{Username: username, Password: string(hash)}
	return &u, s.db.Create(&u).Error
}
