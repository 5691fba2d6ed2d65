package tutoring_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/tutoring"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	in := tutoring.NewUserInput{FirstName: "Ala", LastName: "Kot", Login: "ala", Password: "sekret1", Role: "student"}

	u, err := f.svc.CreateUser(f.ctx, in)
	require.NoError(t, err)
	assert.True(t, u.CheckPassword("sekret1"))

	_, err = f.svc.CreateUser(f.ctx, in)
	assertKind(t, err, apperr.KindBadRequest, "Użytkownik o takim loginie już istnieje")

	in.Login, in.Role = "ola", "dyrektor"
	_, err = f.svc.CreateUser(f.ctx, in)
	assertKind(t, err, apperr.KindBadRequest, "Niepoprawna rola")

	users, err := f.svc.ListUsers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.CreateSession(f.ctx, &models.Session{
		ID: "s1", UserID: f.student.ID, Role: f.student.Role, ExpiresAt: fixedNow.Add(time.Hour),
	}))

	tests := []struct {
		name string
		in   tutoring.ProfileInput
		msg  string
	}{
		{"no old password", tutoring.ProfileInput{Password: "nowehaslo", PasswordConfirm: "nowehaslo"}, "Aby zmienić hasło, podaj stare hasło"},
		{"wrong old password", tutoring.ProfileInput{OldPassword: "zle", Password: "nowehaslo", PasswordConfirm: "nowehaslo"}, "Stare hasło jest nieprawidłowe"},
		{"mismatch", tutoring.ProfileInput{OldPassword: "uczen", Password: "nowehaslo", PasswordConfirm: "inne"}, "Nowe hasła nie są takie same"},
		{"too short", tutoring.ProfileInput{OldPassword: "uczen", Password: "abc", PasswordConfirm: "abc"}, "Hasło musi mieć minimum 6 znaków"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.FirstName, tt.in.LastName = "Zmienione", "Nazwisko"
			_, err := f.svc.UpdateProfile(f.ctx, f.student, tt.in, nil)
			assertKind(t, err, apperr.KindBadRequest, tt.msg)

			stored, err := f.store.GetUserByID(f.ctx, f.student.ID)
			require.NoError(t, err)
			assert.NotEqual(t, "Zmienione", stored.FirstName)
		})
	}

	changed, err := f.svc.UpdateProfile(f.ctx, f.student, tutoring.ProfileInput{FirstName: "Jan", LastName: "Nowak"}, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	_, err = f.store.GetSession(f.ctx, "s1")
	require.NoError(t, err)

	changed, err = f.svc.UpdateProfile(f.ctx, f.student, tutoring.ProfileInput{
		FirstName: "Jan", LastName: "Nowak",
		OldPassword: "uczen", Password: "nowehaslo", PasswordConfirm: "nowehaslo",
	}, &tutoring.Upload{Name: "me.jpg", Body: strings.NewReader("jpeg")})
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := f.store.GetUserByID(f.ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jan Nowak", stored.DisplayName())
	assert.True(t, stored.CheckPassword("nowehaslo"))

	_, err = f.store.GetSession(f.ctx, "s1")
	assertKind(t, err, apperr.KindNotFound, "")

	profile := f.svc.Profile(stored)
	assert.Equal(t, fmt.Sprintf("avatars/user_%d.png", stored.ID), profile.Avatar)
}
