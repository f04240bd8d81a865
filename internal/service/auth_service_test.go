package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/staffroom/logbook-api/internal/dto"
	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/repository"
	"github.com/staffroom/logbook-api/pkg/identity"
)

type memoryUserRepo struct {
	users map[string]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]models.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (m *memoryUserRepo) Update(ctx context.Context, user models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

type stubProvider struct {
	signUpAccount identity.Account
	signUpErr     error
	signInAccount identity.Account
	signInErr     error
	idpAccount    identity.Account
	idpErr        error
	resetErr      error
	verifySent    bool
}

func (p *stubProvider) SignUp(ctx context.Context, email, password string) (identity.Account, error) {
	return p.signUpAccount, p.signUpErr
}

func (p *stubProvider) SignIn(ctx context.Context, email, password string) (identity.Account, error) {
	return p.signInAccount, p.signInErr
}

func (p *stubProvider) SignInWithIDP(ctx context.Context, idToken string) (identity.Account, error) {
	return p.idpAccount, p.idpErr
}

func (p *stubProvider) SendEmailVerification(ctx context.Context, idToken string) error {
	p.verifySent = true
	return nil
}

func (p *stubProvider) SendPasswordReset(ctx context.Context, email string) error {
	return p.resetErr
}

func newTestAuthService(t *testing.T, provider identity.Provider, users repository.UserRepository) (*authService, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewAuthService(provider, users, redisClient, validate, "test-secret", time.Hour, 5*time.Minute, zerolog.Nop()).(*authService)
	return svc, mini
}

// solveChallenge issues a challenge and derives its answer from the stored
// value, so the flow under test matches production.
func solveChallenge(t *testing.T, svc *authService, mini *miniredis.Miniredis) (string, string) {
	t.Helper()

	challenge, err := svc.Challenge(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, challenge.Question)

	answer, err := mini.Get(challengeKeyPrefix + challenge.ID)
	require.NoError(t, err)
	return challenge.ID, answer
}

func TestAuthChallengeMatchesQuestion(t *testing.T) {
	svc, mini := newTestAuthService(t, &stubProvider{}, newMemoryUserRepo())

	id, answer := solveChallenge(t, svc, mini)
	stored, err := strconv.Atoi(answer)
	require.NoError(t, err)
	require.GreaterOrEqual(t, stored, 0)

	require.NoError(t, svc.checkChallenge(context.Background(), id, answer))
	// Challenges are single-use.
	require.ErrorIs(t, svc.checkChallenge(context.Background(), id, answer), ErrChallengeFailed)
}

func TestAuthRegisterProvisionsProfile(t *testing.T) {
	provider := &stubProvider{
		signUpAccount: identity.Account{UID: "uid-1", Email: "asha@school.example", IDToken: "tok"},
	}
	users := newMemoryUserRepo()
	svc, mini := newTestAuthService(t, provider, users)

	id, answer := solveChallenge(t, svc, mini)
	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:            "Asha Verma",
		Email:           "asha@school.example",
		Password:        "secret123",
		Role:            "TEACHER",
		ChallengeID:     id,
		ChallengeAnswer: answer,
	})
	require.NoError(t, err)
	require.Equal(t, "uid-1", user.ID)
	require.Equal(t, "TEACHER", user.Role)
	require.True(t, provider.verifySent)
	require.Len(t, users.users, 1)
}

func TestAuthRegisterMapsProviderError(t *testing.T) {
	provider := &stubProvider{signUpErr: &identity.Error{Code: identity.CodeEmailExists}}
	svc, mini := newTestAuthService(t, provider, newMemoryUserRepo())

	id, answer := solveChallenge(t, svc, mini)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:            "Asha Verma",
		Email:           "asha@school.example",
		Password:        "secret123",
		Role:            "TEACHER",
		ChallengeID:     id,
		ChallengeAnswer: answer,
	})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "User already exists. Sign in?", authErr.Message)
}

func TestAuthLoginIssuesToken(t *testing.T) {
	provider := &stubProvider{
		signInAccount: identity.Account{UID: "uid-1", Email: "asha@school.example", EmailVerified: true},
	}
	users := newMemoryUserRepo()
	users.users["uid-1"] = models.User{ID: "uid-1", Name: "Asha", Role: models.RoleTeacher, Email: "asha@school.example"}
	svc, mini := newTestAuthService(t, provider, users)

	id, answer := solveChallenge(t, svc, mini)
	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:           "asha@school.example",
		Password:        "secret123",
		Role:            "TEACHER",
		ChallengeID:     id,
		ChallengeAnswer: answer,
	})
	require.NoError(t, err)
	require.Equal(t, "uid-1", resp.User.ID)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "uid-1", claims["sub"])
	require.Equal(t, "TEACHER", claims["role"])
	require.Equal(t, "asha@school.example", claims["email"])
}

func TestAuthLoginRejectsWrongChallenge(t *testing.T) {
	provider := &stubProvider{
		signInAccount: identity.Account{UID: "uid-1", Email: "asha@school.example", EmailVerified: true},
	}
	svc, mini := newTestAuthService(t, provider, newMemoryUserRepo())

	id, _ := solveChallenge(t, svc, mini)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:           "asha@school.example",
		Password:        "secret123",
		Role:            "TEACHER",
		ChallengeID:     id,
		ChallengeAnswer: "-9999",
	})
	require.ErrorIs(t, err, ErrChallengeFailed)
}

func TestAuthLoginRejectsUnverifiedEmail(t *testing.T) {
	provider := &stubProvider{
		signInAccount: identity.Account{UID: "uid-1", Email: "asha@school.example", EmailVerified: false},
	}
	svc, mini := newTestAuthService(t, provider, newMemoryUserRepo())

	id, answer := solveChallenge(t, svc, mini)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:           "asha@school.example",
		Password:        "secret123",
		Role:            "TEACHER",
		ChallengeID:     id,
		ChallengeAnswer: answer,
	})
	require.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthLoginRejectsRoleMismatch(t *testing.T) {
	provider := &stubProvider{
		signInAccount: identity.Account{UID: "uid-1", Email: "asha@school.example", EmailVerified: true},
	}
	users := newMemoryUserRepo()
	users.users["uid-1"] = models.User{ID: "uid-1", Name: "Asha", Role: models.RoleTeacher, Email: "asha@school.example"}
	svc, mini := newTestAuthService(t, provider, users)

	id, answer := solveChallenge(t, svc, mini)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:           "asha@school.example",
		Password:        "secret123",
		Role:            "PRINCIPAL",
		ChallengeID:     id,
		ChallengeAnswer: answer,
	})
	require.ErrorIs(t, err, ErrRoleMismatch)
}

func TestAuthOAuthLoginAutoProvisions(t *testing.T) {
	provider := &stubProvider{
		idpAccount: identity.Account{
			UID:           "uid-9",
			Email:         "meera@school.example",
			EmailVerified: true,
			DisplayName:   "Meera Nair",
			PhotoURL:      "https://cdn.example/meera.png",
		},
	}
	users := newMemoryUserRepo()
	svc, _ := newTestAuthService(t, provider, users)

	resp, err := svc.OAuthLogin(context.Background(), dto.OAuthLoginRequest{IDToken: "idp-token", Role: "TEACHER"})
	require.NoError(t, err)
	require.Equal(t, "Meera Nair", resp.User.Name)
	require.Equal(t, "TEACHER", resp.User.Role)

	created, ok := users.users["uid-9"]
	require.True(t, ok)
	require.Equal(t, "https://cdn.example/meera.png", created.Avatar)
}

func TestAuthOAuthLoginNameFallsBackToEmailLocalPart(t *testing.T) {
	provider := &stubProvider{
		idpAccount: identity.Account{UID: "uid-10", Email: "ravi@school.example", EmailVerified: true},
	}
	users := newMemoryUserRepo()
	svc, _ := newTestAuthService(t, provider, users)

	resp, err := svc.OAuthLogin(context.Background(), dto.OAuthLoginRequest{IDToken: "idp-token", Role: "PRINCIPAL"})
	require.NoError(t, err)
	require.Equal(t, "ravi", resp.User.Name)
}
