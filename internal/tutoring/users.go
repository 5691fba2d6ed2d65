package tutoring

import (
	"context"
	"strings"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

const minPasswordLength = 6

// NewUserInput is the add-user form.
type NewUserInput struct {
	FirstName string `form:"imie" json:"imie" binding:"required"`
	LastName  string `form:"nazwisko" json:"nazwisko" binding:"required"`
	Login     string `form:"login" json:"login" binding:"required"`
	Password  string `form:"password" json:"password" binding:"required,min=6"`
	Role      string `form:"role" json:"role" binding:"required,oneof=admin teacher student"`
}

func (s *Service) CreateUser(ctx context.Context, in NewUserInput) (*models.User, error) {
	login := strings.TrimSpace(in.Login)
	if !models.ValidRole(in.Role) {
		return nil, apperr.NewValidationError("Niepoprawna rola", apperr.FieldError{Field: "role", Error: "admin, teacher lub student"})
	}
	exists, err := s.store.LoginExists(ctx, login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BadRequest("Użytkownik o takim loginie już istnieje")
	}
	u := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Login:     login,
		Role:      models.Role(in.Role),
	}
	if err := u.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Profile is the current user with the avatar path to show.
type Profile struct {
	User   models.User `json:"user"`
	Avatar string      `json:"avatar"`
}

func (s *Service) Profile(user *models.User) *Profile {
	return &Profile{User: *user, Avatar: s.files.AvatarPath(user.ID)}
}

// ProfileInput is the profile form. The password fields are optional; when
// Password is set the other two are checked.
type ProfileInput struct {
	FirstName       string `form:"imie" json:"imie"`
	LastName        string `form:"nazwisko" json:"nazwisko"`
	OldPassword     string `form:"old_password" json:"old_password"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
}

func (in ProfileInput) checkPassword(u *models.User) error {
	switch {
	case in.OldPassword == "":
		return apperr.NewValidationError("Aby zmienić hasło, podaj stare hasło", apperr.FieldError{Field: "old_password", Error: "pole wymagane"})
	case !u.CheckPassword(in.OldPassword):
		return apperr.NewValidationError("Stare hasło jest nieprawidłowe", apperr.FieldError{Field: "old_password", Error: "nieprawidłowe hasło"})
	case in.Password != in.PasswordConfirm:
		return apperr.NewValidationError("Nowe hasła nie są takie same", apperr.FieldError{Field: "password_confirm", Error: "hasła się różnią"})
	case len([]rune(in.Password)) < minPasswordLength:
		return apperr.NewValidationError("Hasło musi mieć minimum 6 znaków", apperr.FieldError{Field: "password", Error: "minimum 6 znaków"})
	}
	return nil
}

// UpdateProfile saves names, the optional avatar and the optional new
// password. It reports whether the password changed, in which case every
// session of the user has been ended.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput, avatar *Upload) (bool, error) {
	changePassword := in.Password != ""
	if changePassword {
		if err := in.checkPassword(user); err != nil {
			return false, err
		}
	}

	if avatar != nil && avatar.Body != nil {
		if _, err := s.files.SaveAvatar(user.ID, avatar.Body); err != nil {
			return false, err
		}
	}

	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if err := tx.UpdateUserNames(ctx, user.ID, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)); err != nil {
			return err
		}
		if !changePassword {
			return nil
		}
		if err := user.SetPassword(in.Password); err != nil {
			return err
		}
		if err := tx.UpdatePasswordHash(ctx, user.ID, user.PasswordHash); err != nil {
			return err
		}
		return tx.DeleteUserSessions(ctx, user.ID)
	})
	if err != nil {
		return false, err
	}
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	return changePassword, nil
}
