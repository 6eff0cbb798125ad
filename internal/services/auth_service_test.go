package services

import (
	"context"
	"testing"
	"time"

	"github.com/kuzmin-dev/counterparty-api/internal/database"
	"github.com/kuzmin-dev/counterparty-api/internal/models"
	"github.com/kuzmin-dev/counterparty-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingMailer struct {
	recipient string
	resetURL  string
	calls     int
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, recipient, resetURL string) error {
	m.recipient = recipient
	m.resetURL = resetURL
	m.calls++
	return nil
}

type authTestEnv struct {
	db      *gorm.DB
	service *AuthService
	mailer  *recordingMailer
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Counterparty{},
		&models.Phone{},
		&models.Email{},
		&models.Website{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	mailer := &recordingMailer{}
	service := NewAuthService(repository.NewUserRepository(db), mailer, "http://localhost:8080")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:      db,
		service: service,
		mailer:  mailer,
	}
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Signup(SignupInput{
		Username: "newuser",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	loggedIn, err := env.service.Login(LoginInput{Username: "newuser", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	_, err = env.service.Login(LoginInput{Username: "newuser", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SignupRejectsDuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Signup(SignupInput{Username: "admin", Password: "supersecret"})
	require.NoError(t, err)

	_, err = env.service.Signup(SignupInput{Username: "admin", Password: "othersecret"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	var count int64
	env.db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	require.EqualValues(t, 1, count)
}

func TestAuthService_SignupRejectsDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Signup(SignupInput{Username: "first", Password: "supersecret", Email: "same@example.com"})
	require.NoError(t, err)

	_, err = env.service.Signup(SignupInput{Username: "second", Password: "supersecret", Email: "same@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_SignupRejectsShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.service.Signup(SignupInput{Username: "shorty", Password: "1234567"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Signup(SignupInput{
		Username: "resetme",
		Password: "oldpassword",
		Email:    "resetme@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.RequestPasswordReset(context.Background(), "resetme@example.com"))
	require.Equal(t, 1, env.mailer.calls)
	require.Equal(t, "resetme@example.com", env.mailer.recipient)
	require.Contains(t, env.mailer.resetURL, "http://localhost:8080/reset-password?token=")

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)

	require.NoError(t, env.service.ResetPassword(*stored.ResetToken, "newpassword"))

	// Token is single-use.
	require.ErrorIs(t, env.service.ResetPassword(*stored.ResetToken, "anotherpass"), ErrInvalidResetToken)

	_, err = env.service.Login(LoginInput{Username: "resetme", Password: "oldpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.service.Login(LoginInput{Username: "resetme", Password: "newpassword"})
	require.NoError(t, err)
}

func TestAuthService_PasswordResetUnknownEmailIsSilent(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.NoError(t, env.service.RequestPasswordReset(context.Background(), "nobody@example.com"))
	require.Zero(t, env.mailer.calls)
}

func TestAuthService_ExpiredResetTokenIsRejected(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Signup(SignupInput{
		Username: "expired",
		Password: "oldpassword",
		Email:    "expired@example.com",
	})
	require.NoError(t, err)

	token := "aaaabbbbccccddddeeeeffff00001111"
	expiry := time.Now().Add(-time.Minute)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	require.NoError(t, env.db.Save(user).Error)

	require.ErrorIs(t, env.service.ResetPassword(token, "newpassword"), ErrInvalidResetToken)

	_, err = env.service.Login(LoginInput{Username: "expired", Password: "oldpassword"})
	require.NoError(t, err)
}

func TestAuthService_ReissueInvalidatesPreviousToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Signup(SignupInput{
		Username: "reissue",
		Password: "oldpassword",
		Email:    "reissue@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.RequestPasswordReset(context.Background(), "reissue@example.com"))
	var afterFirst models.User
	require.NoError(t, env.db.First(&afterFirst, user.ID).Error)
	firstToken := *afterFirst.ResetToken

	require.NoError(t, env.service.RequestPasswordReset(context.Background(), "reissue@example.com"))

	require.ErrorIs(t, env.service.ResetPassword(firstToken, "newpassword"), ErrInvalidResetToken)
}

func TestAuthService_DeleteUserCascades(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.service.Signup(SignupInput{Username: "doomed", Password: "supersecret"})
	require.NoError(t, err)

	cpService := NewCounterpartyService(repository.NewCounterpartyRepository(env.db))
	cp, err := cpService.Create(user.ID, CounterpartyInput{
		OrgName:  "Doomed Org",
		Phones:   []string{"111"},
		Emails:   []string{"a@b.c"},
		Websites: []string{"https://doomed.test"},
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteUser(user.ID))

	var users, cps, phones, emails, websites int64
	env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	env.db.Model(&models.Counterparty{}).Where("user_id = ?", user.ID).Count(&cps)
	env.db.Model(&models.Phone{}).Where("counterparty_id = ?", cp.ID).Count(&phones)
	env.db.Model(&models.Email{}).Where("counterparty_id = ?", cp.ID).Count(&emails)
	env.db.Model(&models.Website{}).Where("counterparty_id = ?", cp.ID).Count(&websites)
	require.Zero(t, users)
	require.Zero(t, cps)
	require.Zero(t, phones)
	require.Zero(t, emails)
	require.Zero(t, websites)
}
