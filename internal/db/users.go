package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(u).Error, "creating user")
}

// SaveOrUpdateUser creates the user or overwrites the one with the same login.
func (s *Store) SaveOrUpdateUser(ctx context.Context, u *models.User) error {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("login = ?", u.Login).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.CreateUser(ctx, u)
		}
		return errors.Wrap(err, "finding user")
	}
	u.ID = existing.ID
	return errors.Wrap(s.db.WithContext(ctx).Save(u).Error, "updating user")
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "Użytkownik nie istnieje")
	}
	return &user, nil
}

func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("login = ?", login).First(&user).Error; err != nil {
		return nil, notFound(err, "Użytkownik nie istnieje")
	}
	return &user, nil
}

func (s *Store) LoginExists(ctx context.Context, login string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("login = ?", login).Count(&n).Error
	return n > 0, errors.Wrap(err, "counting logins")
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, errors.Wrap(err, "listing users")
}

// ListStudents returns all student-role users ordered by last and first name.
func (s *Store) ListStudents(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("nazwisko, imie, id").
		Find(&users).Error
	return users, errors.Wrap(err, "listing students")
}

// StudentIDsAmong keeps only the ids that belong to student-role users.
func (s *Store) StudentIDsAmong(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ? AND role = ?", ids, models.RoleStudent).
		Order("id").
		Pluck("id", &out).Error
	return out, errors.Wrap(err, "resolving students")
}

func (s *Store) UpdateUserNames(ctx context.Context, id uint, firstName, lastName string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"imie": firstName, "nazwisko": lastName}).Error
	return errors.Wrap(err, "updating user names")
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
	return errors.Wrap(err, "updating password")
}

// notFound turns gorm.ErrRecordNotFound into an apperr NotFound with msg and
// wraps anything else.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &apperr.Error{Kind: apperr.KindNotFound, Message: msg, Err: err}
	}
	return errors.WithStack(err)
}
