package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/vk-album-grabber/internal/config"
	vk_service "github.com/oshokin/vk-album-grabber/internal/service/vk"
	mock_vk_service "github.com/oshokin/vk-album-grabber/internal/service/vk/mocks"
)

func TestRunDownload(t *testing.T) {
	t.Parallel()

	const albumURL = "https://vk.com/album1_2"

	t.Run("success prints summary", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_vk_service.NewMockService(ctrl)
		cfg := &config.Config{OutputPath: "/tmp/out"}

		gomock.InOrder(
			service.EXPECT().
				DownloadAlbum(gomock.Any(), albumURL, "/tmp/out").
				Return(&vk_service.RunResult{Destination: "/tmp/out/Holidays"}, nil),
			service.EXPECT().PrintDownloadSummary(gomock.Any()),
		)

		require.NoError(t, runDownload(context.Background(), service, cfg, albumURL))
	})

	t.Run("dry run", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_vk_service.NewMockService(ctrl)
		cfg := &config.Config{OutputPath: "/tmp/out", DryRun: true}

		service.EXPECT().
			DownloadAlbum(gomock.Any(), albumURL, "/tmp/out").
			Return(&vk_service.RunResult{Destination: "/tmp/out/Holidays"}, nil)
		service.EXPECT().PrintDownloadSummary(gomock.Any())

		require.NoError(t, runDownload(context.Background(), service, cfg, albumURL))
	})

	t.Run("failure still prints summary", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_vk_service.NewMockService(ctrl)
		cfg := &config.Config{OutputPath: "."}

		service.EXPECT().
			DownloadAlbum(gomock.Any(), albumURL, ".").
			Return(nil, vk_service.ErrAlbumNotFound)
		service.EXPECT().PrintDownloadSummary(gomock.Any())

		err := runDownload(context.Background(), service, cfg, albumURL)
		require.ErrorIs(t, err, vk_service.ErrAlbumNotFound)
	})

	t.Run("panic is turned into error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_vk_service.NewMockService(ctrl)
		cfg := &config.Config{OutputPath: "."}

		service.EXPECT().
			DownloadAlbum(gomock.Any(), albumURL, ".").
			DoAndReturn(func(context.Context, string, string) (*vk_service.RunResult, error) {
				panic("boom")
			})
		service.EXPECT().PrintDownloadSummary(gomock.Any())

		err := runDownload(context.Background(), service, cfg, albumURL)
		require.ErrorIs(t, err, ErrPanic)
	})
}

func TestExecuteRootCommand_InvalidReference(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		AccessToken:        "token",
		APIVersion:         config.DefaultAPIVersion,
		VKAPIBaseURL:       "http://127.0.0.1:1",
		OutputPath:         t.TempDir(),
		RetryAttemptsCount: 1,
		PageSize:           config.MaxPageSize,
	}

	// Parsing fails before any request is made.
	err := ExecuteRootCommand(context.Background(), cfg, "https://vk.com/wall1_2")
	require.ErrorIs(t, err, vk_service.ErrMalformedReference)
	assert.False(t, errors.Is(err, vk_service.ErrAlbumNotFound))
}
