package usecase

import (
	"context"
	"errors"
	"fmt"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/platform/password"
)

// timingDummyPassword is hashed once so that logins for unknown usernames still pay for a Verify call.
const timingDummyPassword = "timing-dummy-password"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。ユーザー名が重複する場合は ErrUsernameTaken を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername はユーザー名に一致するユーザーを取得します。存在しない場合は ErrUserNotFound を返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Delete はIDに一致するユーザーを削除します。存在しない場合は ErrUserNotFound を返します。
	Delete(ctx context.Context, id uint) error

	// List はすべてのユーザーを返します。順序は保証されません。
	List(ctx context.Context) ([]entity.User, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を定義します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer はJWTトークン発行のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	Issue(userID uint, username string) (string, error)
}

// RegisterInput is a registration candidate.
type RegisterInput struct {
	Name     string
	Username string
	Password string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users       UserRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	dummyDigest string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *authUsecase {
	dummy, _ := hasher.Hash(timingDummyPassword)
	return &authUsecase{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		dummyDigest: dummy,
	}
}

func validateCandidate(in RegisterInput) error {
	switch {
	case !entity.ValidName(in.Name):
		return fmt.Errorf("%w: name must contain only letters and spaces, up to %d characters", ErrInvalidUser, entity.MaxNameLength)
	case !entity.ValidUsername(in.Username):
		return fmt.Errorf("%w: username must start with a letter and contain only letters, digits, '.' or '_', up to %d characters", ErrInvalidUser, entity.MaxUsernameLength)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", ErrInvalidUser)
	}
	return nil
}

// Register はユーザー名が未使用であればパスワードをハッシュ化してユーザーを登録します。
// ユーザー名が既に存在する場合は ErrUsernameTaken を返します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) error {
	if err := validateCandidate(in); err != nil {
		return err
	}

	_, err := u.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("failed to look up username: %w", err)
	}

	hashed, err := u.hasher.Hash(in.Password)
	if errors.Is(err, password.ErrPasswordTooLong) {
		return fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Name: in.Name, Username: in.Username, PasswordHash: hashed}
	// A concurrent registration can still win the race; the adapter maps the unique index violation to ErrUsernameTaken.
	return u.users.Create(ctx, user)
}

// Authenticate はユーザー名とパスワードを検証し、成功時にユーザーを返します。
// ユーザーが存在しない場合もパスワード不一致の場合も ErrInvalidCredentials を返します。
func (u *authUsecase) Authenticate(ctx context.Context, username, plaintext string) (*entity.User, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// タイミング攻撃防止のため、ユーザーが存在しない場合もダミーダイジェストで検証する
	digest := u.dummyDigest
	if user != nil {
		digest = user.PasswordHash
	}
	ok := u.hasher.Verify(plaintext, digest)

	if user == nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login はユーザーを認証し、成功時に署名済みトークンを返します。
func (u *authUsecase) Login(ctx context.Context, username, plaintext string) (string, error) {
	user, err := u.Authenticate(ctx, username, plaintext)
	if err != nil {
		return "", err
	}

	token, err := u.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// DeleteUser はユーザーを削除します。存在しない場合は ErrUserNotFound を返します。
func (u *authUsecase) DeleteUser(ctx context.Context, id uint) error {
	return u.users.Delete(ctx, id)
}

// ListUsers はすべてのユーザーを返します。
func (u *authUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.users.List(ctx)
}
