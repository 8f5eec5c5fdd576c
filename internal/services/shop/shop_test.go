// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package shop_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Jayam07/UrbanComm/internal/repository"
	"github.com/Jayam07/UrbanComm/internal/services/shop"
	"github.com/Jayam07/UrbanComm/internal/services/token"
	"github.com/Jayam07/UrbanComm/internal/testutil"
	"github.com/Jayam07/UrbanComm/internal/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	lastName  string
	lastEmail string
	lastToken string
	sent      int
	fail      bool
}

func (m *fakeMailer) SendActivation(_ context.Context, name, toEmail, tokenString string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.lastName = name
	m.lastEmail = toEmail
	m.lastToken = tokenString
	m.sent++
	return nil
}

type fixture struct {
	svc    *shop.Service
	repo   *repository.Repository
	codec  *token.Codec
	mailer *fakeMailer
	files  *uploads.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_, repo := testutil.NewTestDB(t)

	files, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	codec := token.NewCodec("test-secret", 5*time.Minute)
	mailer := &fakeMailer{}

	return &fixture{
		svc:    shop.NewService(repo, codec, mailer, files),
		repo:   repo,
		codec:  codec,
		mailer: mailer,
		files:  files,
	}
}

// storeAvatar drops a file into the upload store as if it had just been
// uploaded.
func (f *fixture) storeAvatar(t *testing.T, filename string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(f.files.Path(filename), []byte("png"), 0o600))
	return filename
}

func registerParams(avatar string) shop.RegisterParams {
	return shop.RegisterParams{
		Name:        "Shop A",
		Email:       "a@x.com",
		Password:    "secret-password",
		Avatar:      avatar,
		Address:     "123 Market Street",
		PhoneNumber: "+14155552671",
		ZipCode:     "94103",
		Longitude:   -122.4194,
		Latitude:    37.7749,
	}
}

func TestRegister_IssuesTokenAndSendsMail(t *testing.T) {
	f := newFixture(t)
	avatar := f.storeAvatar(t, "avatar.png")

	err := f.svc.Register(context.Background(), registerParams(avatar))

	require.NoError(t, err)
	assert.Equal(t, 1, f.mailer.sent)
	assert.Equal(t, "Shop A", f.mailer.lastName)
	assert.Equal(t, "a@x.com", f.mailer.lastEmail)

	// The mailed token decodes back to the submitted profile.
	pending, err := f.codec.Verify(f.mailer.lastToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", pending.Email)
	assert.Equal(t, avatar, pending.Avatar)
	assert.InDelta(t, -122.4194, pending.Longitude, 1e-9)

	// No row is written before activation, the avatar stays on disk.
	exists, err := f.repo.SellerEmailExists(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.True(t, f.files.Exists(avatar))
}

func TestRegister_DuplicateEmail_DeletesAvatar(t *testing.T) {
	f := newFixture(t)
	testutil.NewTestSeller(t, f.repo, "a@x.com")
	avatar := f.storeAvatar(t, "avatar.png")

	err := f.svc.Register(context.Background(), registerParams(avatar))

	assert.ErrorIs(t, err, shop.ErrSellerExists)
	assert.Zero(t, f.mailer.sent)
	assert.False(t, f.files.Exists(avatar))
}

func TestRegister_MailFailure_DeletesAvatar(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = true
	avatar := f.storeAvatar(t, "avatar.png")

	err := f.svc.Register(context.Background(), registerParams(avatar))

	require.Error(t, err)
	assert.False(t, f.files.Exists(avatar))
}

func TestRegister_MissingAvatar(t *testing.T) {
	f := newFixture(t)

	params := registerParams("")
	err := f.svc.Register(context.Background(), params)

	require.Error(t, err)
	assert.Zero(t, f.mailer.sent)
}

func TestRegister_InvalidPhone_DeletesAvatar(t *testing.T) {
	f := newFixture(t)
	avatar := f.storeAvatar(t, "avatar.png")

	params := registerParams(avatar)
	params.PhoneNumber = "not-a-number"
	err := f.svc.Register(context.Background(), params)

	assert.ErrorIs(t, err, shop.ErrInvalidPhone)
	assert.False(t, f.files.Exists(avatar))
}

func TestActivate_CreatesSellerWithHashedPassword(t *testing.T) {
	f := newFixture(t)
	avatar := f.storeAvatar(t, "avatar.png")

	require.NoError(t, f.svc.Register(context.Background(), registerParams(avatar)))

	seller, err := f.svc.Activate(context.Background(), f.mailer.lastToken)

	require.NoError(t, err)
	assert.NotZero(t, seller.ID)
	assert.Equal(t, "a@x.com", seller.Email)
	assert.Equal(t, avatar, seller.Avatar)

	// Password stored as a bcrypt hash of the submitted plaintext.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte("secret-password")))

	// Location round-trips as [longitude, latitude].
	loc := seller.Location()
	assert.Equal(t, "Point", loc.Type)
	assert.InDelta(t, -122.4194, loc.Coordinates[0], 1e-9)
	assert.InDelta(t, 37.7749, loc.Coordinates[1], 1e-9)
}

func TestActivate_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	avatar := f.storeAvatar(t, "avatar.png")
	require.NoError(t, f.svc.Register(context.Background(), registerParams(avatar)))

	// A second registration for the same email completes first.
	testutil.NewTestSeller(t, f.repo, "a@x.com")

	_, err := f.svc.Activate(context.Background(), f.mailer.lastToken)

	assert.ErrorIs(t, err, shop.ErrSellerExists)
}

func TestActivate_ReplayIsRejected(t *testing.T) {
	f := newFixture(t)
	avatar := f.storeAvatar(t, "avatar.png")
	require.NoError(t, f.svc.Register(context.Background(), registerParams(avatar)))

	_, err := f.svc.Activate(context.Background(), f.mailer.lastToken)
	require.NoError(t, err)

	// The token is still cryptographically valid, the duplicate check
	// makes the replay a no-op.
	_, err = f.svc.Activate(context.Background(), f.mailer.lastToken)
	assert.ErrorIs(t, err, shop.ErrSellerExists)
}

func TestActivate_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	expired := token.NewCodec("test-secret", 5*time.Minute,
		token.WithClock(func() time.Time { return time.Now().Add(-10 * time.Minute) }))
	tokenString, err := expired.Issue(token.PendingSeller{Name: "Shop A", Email: "a@x.com", Password: "secret-password"})
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), tokenString)

	assert.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestActivate_InvalidToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Activate(context.Background(), "garbage")

	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	created := testutil.NewTestSeller(t, f.repo, "a@x.com")

	seller, err := f.svc.Login(context.Background(), "a@x.com", "correct horse battery")

	require.NoError(t, err)
	assert.Equal(t, created.ID, seller.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	testutil.NewTestSeller(t, f.repo, "a@x.com")

	_, err := f.svc.Login(context.Background(), "a@x.com", "wrong")

	assert.ErrorIs(t, err, shop.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), "nobody@x.com", "whatever")

	assert.ErrorIs(t, err, shop.ErrSellerNotFound)
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), "", "")

	assert.ErrorIs(t, err, shop.ErrMissingFields)
}

func TestUpdateAvatar_DeletesPriorFile(t *testing.T) {
	f := newFixture(t)
	seller := testutil.NewTestSeller(t, f.repo, "a@x.com")

	old := f.storeAvatar(t, "old.png")
	_, err := f.repo.UpdateSellerAvatar(context.Background(), seller.ID, old)
	require.NoError(t, err)

	newFile := f.storeAvatar(t, "new.png")
	updated, err := f.svc.UpdateAvatar(context.Background(), seller.ID, newFile)

	require.NoError(t, err)
	assert.Equal(t, newFile, updated.Avatar)
	assert.False(t, f.files.Exists(old))
	assert.True(t, f.files.Exists(newFile))
}

func TestUpdateInfo(t *testing.T) {
	f := newFixture(t)
	seller := testutil.NewTestSeller(t, f.repo, "a@x.com")

	updated, err := f.svc.UpdateInfo(context.Background(), seller.ID, shop.UpdateInfoParams{
		Name:        "Renamed Shop",
		Description: "All kinds of goods",
		Address:     "456 Oak Ave",
		PhoneNumber: "+14155550000",
		ZipCode:     "94105",
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed Shop", updated.Name)
	assert.Equal(t, "All kinds of goods", updated.Description)
}

func TestUpdateInfo_MissingName(t *testing.T) {
	f := newFixture(t)
	seller := testutil.NewTestSeller(t, f.repo, "a@x.com")

	_, err := f.svc.UpdateInfo(context.Background(), seller.ID, shop.UpdateInfoParams{})

	assert.ErrorIs(t, err, shop.ErrMissingFields)
}

func TestWithdrawMethodLifecycle(t *testing.T) {
	f := newFixture(t)
	seller := testutil.NewTestSeller(t, f.repo, "a@x.com")

	updated, err := f.svc.UpdateWithdrawMethod(context.Background(), seller.ID, map[string]any{"bankName": "Equity"})
	require.NoError(t, err)
	assert.NotNil(t, updated.WithdrawMethod)

	cleared, err := f.svc.DeleteWithdrawMethod(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.WithdrawMethod)
}
