package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/platform/password"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *entity.User) error
	FindByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
	DeleteFunc         func(ctx context.Context, id uint) error
	ListFunc           func(ctx context.Context) ([]entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// memoryUserRepository keeps users in a slice so that multi-step scenarios can be checked.
type memoryUserRepository struct {
	users  []entity.User
	nextID uint
}

func (m *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, *user)
	return nil
}

func (m *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryUserRepository) Delete(_ context.Context, id uint) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}

func (m *memoryUserRepository) List(_ context.Context) ([]entity.User, error) {
	return m.users, nil
}

// mockTokenIssuer is a mock implementation of the TokenIssuer interface.
type mockTokenIssuer struct {
	IssueFunc func(userID uint, username string) (string, error)
}

func (m *mockTokenIssuer) Issue(userID uint, username string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID, username)
	}
	return "mock-jwt-token", nil
}

// failingHasher always fails to hash.
type failingHasher struct{ password.SHA256Hasher }

func (failingHasher) Hash(string) (string, error) { return "", errors.New("hash failure") }

func validInput() RegisterInput {
	return RegisterInput{Name: "Alice Liddell", Username: "alice", Password: "password123"}
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Parallel()

	t.Run("successful registration stores a digest", func(t *testing.T) {
		t.Parallel()

		var stored *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				stored = user
				return nil
			},
		}
		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

		err := uc.Register(context.Background(), validInput())

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Alice Liddell", stored.Name)
		assert.Equal(t, "alice", stored.Username)
		assert.NotEqual(t, "password123", stored.PasswordHash, "password must be hashed")
		assert.True(t, password.SHA256Hasher{}.Verify("password123", stored.PasswordHash))
	})

	t.Run("existing username is rejected without creating", func(t *testing.T) {
		t.Parallel()

		createCalled := false
		repo := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return &entity.User{ID: 1, Username: username}, nil
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				createCalled = true
				return nil
			},
		}
		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

		err := uc.Register(context.Background(), validInput())

		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.False(t, createCalled)
	})

	t.Run("lookup failure is propagated", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database error")
		repo := &mockUserRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
				return nil, dbErr
			},
		}
		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

		err := uc.Register(context.Background(), validInput())

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("repository create failure", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database error")
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error { return dbErr },
		}
		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

		err := uc.Register(context.Background(), validInput())

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("hash failure", func(t *testing.T) {
		t.Parallel()

		uc := NewAuthUsecase(&mockUserRepository{}, failingHasher{}, &mockTokenIssuer{})

		err := uc.Register(context.Background(), validInput())

		assert.EqualError(t, err, "failed to hash password: hash failure")
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		t.Parallel()

		createCalled := false
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				createCalled = true
				return nil
			},
		}
		uc := NewAuthUsecase(repo, password.NewBcryptHasher(bcrypt.MinCost), &mockTokenIssuer{})

		in := validInput()
		in.Password = strings.Repeat("p", 73)
		err := uc.Register(context.Background(), in)

		assert.ErrorIs(t, err, ErrInvalidUser)
		assert.ErrorIs(t, err, password.ErrPasswordTooLong)
		assert.False(t, createCalled)
	})
}

func TestAuthUsecase_Register_InvalidCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"name with digits", RegisterInput{Name: "Alice 2", Username: "alice", Password: "x"}},
		{"empty name", RegisterInput{Name: "", Username: "alice", Password: "x"}},
		{"username starting with digit", RegisterInput{Name: "Alice", Username: "1alice", Password: "x"}},
		{"username too long", RegisterInput{Name: "Alice", Username: "abcdefghijklmnopqrstuvwxyzabcde", Password: "x"}},
		{"empty password", RegisterInput{Name: "Alice", Username: "alice", Password: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := NewAuthUsecase(&mockUserRepository{}, password.SHA256Hasher{}, &mockTokenIssuer{})

			err := uc.Register(context.Background(), tt.input)

			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

// TestAuthUsecase_Register_Twice checks that the second registration of a username fails and only one record persists.
func TestAuthUsecase_Register_Twice(t *testing.T) {
	t.Parallel()

	repo := &memoryUserRepository{}
	uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

	first := uc.Register(context.Background(), RegisterInput{Name: "Alice", Username: "alice", Password: "one"})
	second := uc.Register(context.Background(), RegisterInput{Name: "Other Alice", Username: "alice", Password: "two"})

	assert.NoError(t, first)
	assert.ErrorIs(t, second, ErrUsernameTaken)

	users, _ := repo.List(context.Background())
	count := 0
	for _, u := range users {
		if u.Username == "alice" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAuthUsecase_Authenticate(t *testing.T) {
	t.Parallel()

	hashers := map[string]PasswordHasher{
		"sha256": password.SHA256Hasher{},
		"bcrypt": password.NewBcryptHasher(4),
	}

	for hname, hasher := range hashers {
		t.Run(hname, func(t *testing.T) {
			t.Parallel()

			repo := &memoryUserRepository{}
			uc := NewAuthUsecase(repo, hasher, &mockTokenIssuer{})
			require.NoError(t, uc.Register(context.Background(), validInput()))

			t.Run("correct password returns the full record", func(t *testing.T) {
				user, err := uc.Authenticate(context.Background(), "alice", "password123")

				require.NoError(t, err)
				assert.Equal(t, "alice", user.Username)
				assert.NotEmpty(t, user.PasswordHash)
			})

			t.Run("wrong password", func(t *testing.T) {
				user, err := uc.Authenticate(context.Background(), "alice", "wrong-password")

				assert.Nil(t, user)
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			})

			t.Run("unknown username", func(t *testing.T) {
				user, err := uc.Authenticate(context.Background(), "nobody", "password123")

				assert.Nil(t, user)
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			})

			t.Run("unknown username with the dummy password", func(t *testing.T) {
				user, err := uc.Authenticate(context.Background(), "nobody", timingDummyPassword)

				assert.Nil(t, user)
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			})
		})
	}
}

func TestAuthUsecase_Authenticate_RepositoryError(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection lost")
	repo := &mockUserRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
			return nil, dbErr
		},
	}
	uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

	_, err := uc.Authenticate(context.Background(), "alice", "password123")

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	digest, _ := password.SHA256Hasher{}.Hash("password123")
	testUser := &entity.User{ID: 7, Username: "alice", PasswordHash: digest}
	repo := &mockUserRepository{
		FindByUsernameFunc: func(ctx context.Context, username string) (*entity.User, error) {
			if username == testUser.Username {
				return testUser, nil
			}
			return nil, ErrUserNotFound
		},
	}

	t.Run("successful login", func(t *testing.T) {
		t.Parallel()

		tokens := &mockTokenIssuer{
			IssueFunc: func(userID uint, username string) (string, error) {
				assert.Equal(t, uint(7), userID)
				assert.Equal(t, "alice", username)
				return "signed-token", nil
			},
		}
		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, tokens)

		token, err := uc.Login(context.Background(), "alice", "password123")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()

		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})

		token, err := uc.Login(context.Background(), "alice", "nope")

		assert.Empty(t, token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token generation failure", func(t *testing.T) {
		t.Parallel()

		tokens := &mockTokenIssuer{
			IssueFunc: func(userID uint, username string) (string, error) {
				return "", errors.New("failed to sign token")
			},
		}
		uc := NewAuthUsecase(repo, password.SHA256Hasher{}, tokens)

		_, err := uc.Login(context.Background(), "alice", "password123")

		assert.EqualError(t, err, "failed to generate token: failed to sign token")
	})
}

func TestAuthUsecase_DeleteUser(t *testing.T) {
	t.Parallel()

	repo := &memoryUserRepository{}
	uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})
	require.NoError(t, uc.Register(context.Background(), validInput()))

	assert.NoError(t, uc.DeleteUser(context.Background(), 1))
	assert.ErrorIs(t, uc.DeleteUser(context.Background(), 1), ErrUserNotFound)
	assert.ErrorIs(t, uc.DeleteUser(context.Background(), 99), ErrUserNotFound)
}

func TestAuthUsecase_ListUsers(t *testing.T) {
	t.Parallel()

	repo := &memoryUserRepository{}
	uc := NewAuthUsecase(repo, password.SHA256Hasher{}, &mockTokenIssuer{})
	require.NoError(t, uc.Register(context.Background(), RegisterInput{Name: "Alice", Username: "alice", Password: "a"}))
	require.NoError(t, uc.Register(context.Background(), RegisterInput{Name: "Bob", Username: "bob", Password: "b"}))

	users, err := uc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Len(t, users, 2)
}
