package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kartikeya-dewal/devConnector/adapters/event"
	"github.com/kartikeya-dewal/devConnector/adapters/persistence/memory"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type fakeUploader struct {
	folder, publicID string
	data             []byte
	err              error
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.folder, f.publicID = folder, publicID
	f.data, _ = io.ReadAll(file)
	return "https://cdn.example.com/" + folder + "/" + publicID + ".png", nil
}

func (f *fakeUploader) Delete(context.Context, string) error { return nil }

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	users := memory.NewStore().Users()
	u := &user.User{Name: "Jane", Email: "jane@example.com"}
	require.NoError(t, users.Create(ctx, u))

	up := &fakeUploader{}
	uc := NewUploadAvatarUseCase(users, up, event.NewLogPublisher(log), log)

	out, err := uc.Execute(ctx, UploadAvatarInput{UserID: u.ID, File: bytes.NewReader([]byte("png"))})
	require.NoError(t, err)
	assert.Equal(t, "avatars", up.folder)
	assert.Equal(t, u.ID, up.publicID)
	assert.Equal(t, []byte("png"), up.data)

	stored, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, out.AvatarURL, stored.Avatar)
}

func TestUploadAvatarErrors(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	users := memory.NewStore().Users()

	uc := NewUploadAvatarUseCase(users, &fakeUploader{}, event.NewLogPublisher(log), log)
	_, err := uc.Execute(ctx, UploadAvatarInput{UserID: "ghost", File: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	u := &user.User{Name: "Jane", Email: "jane@example.com"}
	require.NoError(t, users.Create(ctx, u))
	uc = NewUploadAvatarUseCase(users, &fakeUploader{err: errors.New("quota")}, event.NewLogPublisher(log), log)
	_, err = uc.Execute(ctx, UploadAvatarInput{UserID: u.ID, File: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	args := m.Called(ctx, file, folder, publicID)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

type failingAvatarRepo struct {
	user.Repository
}

func (failingAvatarRepo) UpdateAvatar(context.Context, string, string) error {
	return errors.New("write failed")
}

func TestUploadAvatarCleansUpWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	users := memory.NewStore().Users()
	u := &user.User{Name: "Jane", Email: "jane@example.com"}
	require.NoError(t, users.Create(ctx, u))

	deleted := make(chan struct{})
	up := &mockUploader{}
	up.On("Upload", mock.Anything, mock.Anything, "avatars", u.ID).Return("https://cdn.example.com/a.png", nil)
	up.On("Delete", mock.Anything, "avatars/"+u.ID).Return(nil).Run(func(mock.Arguments) { close(deleted) })

	uc := NewUploadAvatarUseCase(failingAvatarRepo{users}, up, event.NewLogPublisher(log), log)
	_, err := uc.Execute(ctx, UploadAvatarInput{UserID: u.ID, File: bytes.NewReader([]byte("png"))})
	assert.ErrorIs(t, err, apperror.ErrInternal)

	select {
	case <-deleted:
	case <-time.After(time.Second):
		t.Fatal("orphaned avatar was not deleted")
	}
	up.AssertExpectations(t)
}
