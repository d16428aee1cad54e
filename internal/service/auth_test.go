package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniclub/uniclub-api/internal/domain"
	"github.com/uniclub/uniclub-api/internal/repository"
	"github.com/uniclub/uniclub-api/internal/service"
)

type fakeAuthUserRepo struct {
	nextID uint
	byMail map[string]domain.User
}

func newFakeAuthUserRepo() *fakeAuthUserRepo {
	return &fakeAuthUserRepo{byMail: make(map[string]domain.User)}
}

func (f *fakeAuthUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.byMail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}

	f.nextID++
	user.ID = f.nextID
	f.byMail[user.Email] = user

	return user, nil
}

func (f *fakeAuthUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byMail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a bcrypt hash, never the plaintext", func(t *testing.T) {
		repo := newFakeAuthUserRepo()
		svc := service.NewAuthService(repo)

		user, err := svc.Signup(ctx, domain.User{
			Email:    "sam@example.edu",
			Password: "Sup3rSecret",
			Name:     "Sam",
			Role:     domain.RoleStudent,
		})
		require.NoError(t, err)

		assert.NotZero(t, user.ID)
		stored := repo.byMail["sam@example.edu"]
		assert.NotEqual(t, "Sup3rSecret", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Sup3rSecret")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeAuthUserRepo()
		svc := service.NewAuthService(repo)

		_, err := svc.Signup(ctx, domain.User{Email: "sam@example.edu", Password: "Sup3rSecret"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, domain.User{Email: "sam@example.edu", Password: "An0therOne"})
		assert.ErrorIs(t, err, service.ErrUserEmailExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAuthUserRepo()
	svc := service.NewAuthService(repo)

	_, err := svc.Signup(ctx, domain.User{Email: "sam@example.edu", Password: "Sup3rSecret"})
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, "sam@example.edu", "Sup3rSecret")
		require.NoError(t, err)

		assert.Equal(t, "sam@example.edu", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "sam@example.edu", "nope")

		assert.ErrorIs(t, err, service.ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.edu", "Sup3rSecret")

		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}
