package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/ytjar/internal/fetch"
	"github.com/vmunix/ytjar/internal/fetch/mocks"
	"github.com/vmunix/ytjar/internal/targets"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newConfig(t *testing.T, mutate func(*fetch.Options)) fetch.Config {
	t.Helper()
	opts := fetch.Options{
		Root:           t.TempDir(),
		JarPath:        "/tmp/jar.txt",
		Proxy:          "http://proxy:3128",
		OutputTemplate: "%(title)s.%(ext)s",
	}
	if mutate != nil {
		mutate(&opts)
	}
	cfg, err := fetch.NewConfig(opts)
	require.NoError(t, err)
	return cfg
}

var target = targets.Target{URL: "https://www.youtube.com/watch?v=abc", Line: 1}

func TestFetch_VideoSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, nil)

	engine.EXPECT().
		Download(gomock.Any(), fetch.DownloadRequest{
			URL:         target.URL,
			JarPath:     "/tmp/jar.txt",
			Proxy:       "http://proxy:3128",
			Output:      filepath.Join(cfg.Root(), "%(title)s.%(ext)s"),
			Format:      fetch.VideoFormat,
			MergeFormat: fetch.MergeFormat,
		}).
		Return(&fetch.Download{Title: "Clip", File: "Clip.mp4"}, nil)

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

	assert.Equal(t, fetch.StatusSucceeded, out.Status)
	assert.NoError(t, out.Err)
	assert.Equal(t, "Clip", out.Title)
	assert.Equal(t, "Clip.mp4", out.File)
	assert.Equal(t, cfg.Root(), out.Dest)
}

func TestFetch_AudioRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, func(o *fetch.Options) {
		o.AudioOnly = true
		o.Quality = 2
	})

	var got fetch.DownloadRequest
	engine.EXPECT().Download(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req fetch.DownloadRequest) (*fetch.Download, error) {
			got = req
			return &fetch.Download{}, nil
		})

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)
	require.Equal(t, fetch.StatusSucceeded, out.Status)

	assert.Equal(t, fetch.AudioFormat, got.Format)
	assert.True(t, got.ExtractAudio)
	assert.Equal(t, "mp3", got.AudioCodec)
	assert.Equal(t, "192K", got.AudioQuality)
	assert.Empty(t, got.MergeFormat)
}

func TestFetch_SubdirCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, nil)

	engine.EXPECT().Download(gomock.Any(), gomock.Any()).Return(&fetch.Download{}, nil)

	tgt := targets.Target{URL: target.URL, Subdir: filepath.Join("music", "live")}
	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), tgt, cfg)

	require.Equal(t, fetch.StatusSucceeded, out.Status)
	assert.Equal(t, filepath.Join(cfg.Root(), "music", "live"), out.Dest)
	assert.DirExists(t, out.Dest)
}

func TestFetch_EngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, nil)

	engine.EXPECT().Download(gomock.Any(), gomock.Any()).Return(nil, errors.New("HTTP Error 403"))

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

	assert.Equal(t, fetch.StatusFailed, out.Status)
	var fe *fetch.Error
	require.ErrorAs(t, out.Err, &fe)
	assert.Equal(t, target.URL, fe.URL)
	assert.Equal(t, fetch.OpDownload, fe.Op)
}

func TestFetch_EngineReportsUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		check bool
		want  fetch.Status
	}{
		{"check disabled counts as failure", false, fetch.StatusFailed},
		{"check enabled", true, fetch.StatusUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := mocks.NewMockEngine(ctrl)
			cfg := newConfig(t, func(o *fetch.Options) { o.CheckAvailability = tt.check })

			if tt.check {
				engine.EXPECT().Probe(gomock.Any(), gomock.Any()).
					Return(&fetch.Metadata{Availability: "public"}, nil)
			}
			engine.EXPECT().Download(gomock.Any(), gomock.Any()).
				Return(nil, errors.Join(fetch.ErrUnavailable, errors.New("Video unavailable")))

			out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

			assert.Equal(t, tt.want, out.Status)
			assert.ErrorIs(t, out.Err, fetch.ErrUnavailable)
		})
	}
}

func TestFetch_Interrupted(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	engine.EXPECT().Download(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, fetch.DownloadRequest) (*fetch.Download, error) {
			cancel()
			return nil, errors.New("signal: killed")
		})

	out := fetch.NewFetcher(engine, testLogger()).Fetch(ctx, target, cfg)

	assert.Equal(t, fetch.StatusInterrupted, out.Status)
	assert.ErrorIs(t, out.Err, context.Canceled)
}

func TestFetch_CancelledBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := fetch.NewFetcher(engine, testLogger()).Fetch(ctx, target, cfg)
	assert.Equal(t, fetch.StatusInterrupted, out.Status)
}

func TestFetch_GroupByUploader(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, func(o *fetch.Options) { o.GroupByUploader = true })

	engine.EXPECT().
		Probe(gomock.Any(), fetch.ProbeRequest{URL: target.URL, JarPath: "/tmp/jar.txt", Proxy: "http://proxy:3128"}).
		Return(&fetch.Metadata{Title: "Clip", Uploader: "AC/DC Official"}, nil)
	engine.EXPECT().Download(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req fetch.DownloadRequest) (*fetch.Download, error) {
			assert.Equal(t, filepath.Join(cfg.Root(), "AC DC Official", "%(title)s.%(ext)s"), req.Output)
			return &fetch.Download{}, nil
		})

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

	require.Equal(t, fetch.StatusSucceeded, out.Status)
	assert.Equal(t, "AC DC Official", out.Label)
	assert.Equal(t, "Clip", out.Title)
	assert.DirExists(t, filepath.Join(cfg.Root(), "AC DC Official"))
}

func TestFetch_GroupProbeFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, func(o *fetch.Options) { o.GroupByUploader = true })

	engine.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	engine.EXPECT().Download(gomock.Any(), gomock.Any()).Return(&fetch.Download{}, nil)

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

	require.Equal(t, fetch.StatusSucceeded, out.Status)
	assert.Equal(t, fetch.UnknownLabel, out.Label)
	assert.Equal(t, filepath.Join(cfg.Root(), fetch.UnknownLabel), out.Dest)
}

func TestFetch_AvailabilityCheck(t *testing.T) {
	tests := []struct {
		name     string
		meta     *fetch.Metadata
		probeErr error
	}{
		{"probe failure", nil, errors.New("Private video")},
		{"upcoming", &fetch.Metadata{LiveStatus: fetch.LiveStatusUpcoming}, nil},
		{"private", &fetch.Metadata{Availability: fetch.AvailabilityPrivate}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := mocks.NewMockEngine(ctrl)
			cfg := newConfig(t, func(o *fetch.Options) { o.CheckAvailability = true })

			engine.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(tt.meta, tt.probeErr)
			// No Download expectation: gomock fails the test if it is called.

			out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

			assert.Equal(t, fetch.StatusUnavailable, out.Status)
			var fe *fetch.Error
			require.ErrorAs(t, out.Err, &fe)
			assert.Equal(t, fetch.OpProbe, fe.Op)
		})
	}
}

func TestFetch_AvailabilityCheckPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, func(o *fetch.Options) { o.CheckAvailability = true })

	engine.EXPECT().Probe(gomock.Any(), gomock.Any()).
		Return(&fetch.Metadata{Availability: "public", LiveStatus: "not_live"}, nil)
	engine.EXPECT().Download(gomock.Any(), gomock.Any()).Return(&fetch.Download{}, nil)

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)
	assert.Equal(t, fetch.StatusSucceeded, out.Status)
}

func TestFetch_DestinationNotCreatable(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg := newConfig(t, func(o *fetch.Options) { o.Root = blocker })

	out := fetch.NewFetcher(engine, testLogger()).Fetch(context.Background(), target, cfg)

	assert.Equal(t, fetch.StatusFailed, out.Status)
	var fe *fetch.Error
	require.ErrorAs(t, out.Err, &fe)
	assert.Equal(t, fetch.OpPrepare, fe.Op)
}

func TestFormats(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, nil)

	meta := &fetch.Metadata{Title: "Clip", Formats: []fetch.Format{{ID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2"}}}
	engine.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(meta, nil)

	got, err := fetch.NewFetcher(engine, testLogger()).Formats(context.Background(), target, cfg)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
	assert.True(t, got.Formats[0].AudioOnly())

	engine.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	_, err = fetch.NewFetcher(engine, testLogger()).Formats(context.Background(), target, cfg)
	var fe *fetch.Error
	assert.ErrorAs(t, err, &fe)
}

func TestFetch_UnavailableLoggedAsWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	cfg := newConfig(t, func(o *fetch.Options) { o.CheckAvailability = true })

	engine.EXPECT().Probe(gomock.Any(), gomock.Any()).
		Return(&fetch.Metadata{Availability: fetch.AvailabilityPrivate}, nil)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	out := fetch.NewFetcher(engine, log).Fetch(context.Background(), target, cfg)

	require.Equal(t, fetch.StatusUnavailable, out.Status)
	assert.Contains(t, buf.String(), `level=WARN msg="content unavailable"`)
	assert.NotContains(t, buf.String(), "level=ERROR")
}
