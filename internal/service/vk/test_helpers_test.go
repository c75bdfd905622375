package vk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/oshokin/vk-album-grabber/internal/client/vk"
	mock_vk_client "github.com/oshokin/vk-album-grabber/internal/client/vk/mocks"
	"github.com/oshokin/vk-album-grabber/internal/config"
)

// testClock is the fixed time used by test services.
//
//nolint:gochecknoglobals // Test fixture.
var testClock = time.Date(2024, time.March, 10, 12, 30, 45, 123456789, time.UTC)

// testDownloadSetup encapsulates common test dependencies and configuration.
type testDownloadSetup struct {
	ctrl       *gomock.Controller
	mockClient *mock_vk_client.MockClient
	reporter   *recordingReporter
	service    *ServiceImpl
	config     *config.Config
	tempDir    string
}

// newTestDownloadSetup creates a standard test setup with optional config overrides.
func newTestDownloadSetup(t *testing.T, configOverrides ...func(*config.Config)) *testDownloadSetup {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := mock_vk_client.NewMockClient(ctrl)
	tempDir := t.TempDir()

	cfg := &config.Config{
		OutputPath:          tempDir,
		PageSize:            config.MaxPageSize,
		MaxFolderNameLength: config.DefaultMaxFolderNameLength,
		ShowProgressBar:     false,
	}

	for _, override := range configOverrides {
		override(cfg)
	}

	reporter := new(recordingReporter)

	service := newService(cfg, mockClient, reporter)
	service.now = func() time.Time { return testClock }

	return &testDownloadSetup{
		ctrl:       ctrl,
		mockClient: mockClient,
		reporter:   reporter,
		service:    service,
		config:     cfg,
		tempDir:    tempDir,
	}
}

// recordedEvent is a progress notification captured by recordingReporter.
type recordedEvent struct {
	kind  string
	event ProgressEvent
	err   error
}

// recordingReporter stores every progress notification.
type recordingReporter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingReporter) record(kind string, event *ProgressEvent, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, recordedEvent{kind: kind, event: *event, err: err})
}

func (r *recordingReporter) ReportStart(_ context.Context, event *ProgressEvent) {
	r.record("start", event, nil)
}

func (r *recordingReporter) ReportComplete(_ context.Context, event *ProgressEvent) {
	r.record("complete", event, nil)
}

func (r *recordingReporter) ReportSkip(_ context.Context, event *ProgressEvent, err error) {
	r.record("skip", event, err)
}

func (r *recordingReporter) ReportFailure(_ context.Context, event *ProgressEvent, err error) {
	r.record("failure", event, err)
}

// byKind returns the recorded events of the given kind.
func (r *recordingReporter) byKind(kind string) []ProgressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []ProgressEvent

	for _, recorded := range r.events {
		if recorded.kind == kind {
			result = append(result, recorded.event)
		}
	}

	return result
}

// makePhotos creates count photos with IDs starting at firstID, each with a single variant.
func makePhotos(firstID int64, count int) []*vk.Photo {
	photos := make([]*vk.Photo, 0, count)

	for i := range count {
		id := firstID + int64(i)
		photos = append(photos, &vk.Photo{
			ID:       id,
			OwnerID:  1,
			AlbumID:  2,
			Variants: map[int]string{1280: photoURL(id)},
		})
	}

	return photos
}

// photoURL returns the fake image URL of a photo.
func photoURL(id int64) string {
	return fmt.Sprintf("https://sun9-1.userapi.com/photo_%d.jpg", id)
}

// photoContent returns the fake image bytes of a photo.
func photoContent(id int64) []byte {
	return []byte(fmt.Sprintf("\xff\xd8 jpeg payload of photo %d \xff\xd9", id))
}

// fetchResultOf wraps data into a FetchResult with a known length.
func fetchResultOf(data []byte) *vk.FetchResult {
	return &vk.FetchResult{
		Body:       io.NopCloser(bytes.NewReader(data)),
		TotalBytes: int64(len(data)),
	}
}

// failingReader returns some bytes and then an error.
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}

	n := copy(p, r.data)
	r.data = r.data[n:]

	return n, nil
}
