package passlock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/cryptox"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewInMemoryRepository(), 0)
}

func TestService_SetAndVerify(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, 1001, "correct horse battery staple"))

	ok, err := s.Verify(ctx, 1001, "correct horse battery staple")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Verify(ctx, 1001, "wrong horse")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_VerifyFailsClosedWithoutRecord(t *testing.T) {
	s := newTestService(t)

	ok, err := s.Verify(context.Background(), 404, "anything at all")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_SetReplacesPassphrase(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, 1001, "first passphrase"))
	require.NoError(t, s.Set(ctx, 1001, "second passphrase"))

	ok, err := s.Verify(ctx, 1001, "first passphrase")
	require.NoError(t, err)
	require.False(t, ok, "old passphrase must stop verifying")

	ok, err = s.Verify(ctx, 1001, "second passphrase")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestService_SetRejectsShortPassphrase(t *testing.T) {
	s := newTestService(t)

	err := s.Set(context.Background(), 1001, "short")
	require.ErrorIs(t, err, common.ErrInvalidPassphrase)
}

func TestService_MinLengthCountsRunes(t *testing.T) {
	s := newTestService(t)

	// 8 multibyte runes satisfy the default policy even though the byte
	// count would mislead a len() check.
	require.NoError(t, s.Set(context.Background(), 1001, "пароль42"))
}

func TestService_Has(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	has, err := s.Has(ctx, 1001)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, s.Set(ctx, 1001, "long enough passphrase"))

	has, err = s.Has(ctx, 1001)
	require.NoError(t, err)
	require.True(t, has)
}

func TestService_Clear(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, 1001, "long enough passphrase"))

	removed, err := s.Clear(ctx, 1001)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.Clear(ctx, 1001)
	require.NoError(t, err)
	require.False(t, removed, "second clear must be a no-op")

	ok, err := s.Verify(ctx, 1001, "long enough passphrase")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_VerifyUsesStoredSnapshot(t *testing.T) {
	repo := NewInMemoryRepository()
	s := NewService(repo, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, 1001, "long enough passphrase"))

	// The stored record carries the KDF snapshot it was written with.
	record, err := repo.Get(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, cryptox.DefaultKDFParams(), record.Params)
	require.Len(t, record.Salt, cryptox.SaltSize)
	require.NotEmpty(t, record.Hash)
}

type failingRepo struct{}

func (failingRepo) Get(ctx context.Context, userID int64) (*Record, error) {
	return nil, errors.New("backend down")
}
func (failingRepo) Save(ctx context.Context, record *Record) error {
	return errors.New("backend down")
}
func (failingRepo) Delete(ctx context.Context, userID int64) error {
	return errors.New("backend down")
}

func TestService_RepoErrorsPropagate(t *testing.T) {
	s := NewService(failingRepo{}, 0)
	ctx := context.Background()

	_, err := s.Verify(ctx, 1, "whatever passphrase")
	require.Error(t, err)

	_, err = s.Has(ctx, 1)
	require.Error(t, err)

	require.Error(t, s.Set(ctx, 1, "whatever passphrase"))
}
