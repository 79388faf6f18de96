package ipfs_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/mocks"
	"github.com/feral-file/ff-events/internal/providers"
	"github.com/feral-file/ff-events/internal/providers/ipfs"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func newProvider(t *testing.T) (providers.ContentProvider, *mocks.MockHTTPClient) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	p := ipfs.NewProvider(ipfs.Config{
		APIURL:   "http://localhost:5001/",
		Gateways: []string{"https://gw-a.example/", "https://gw-b.example"},
	}, httpClient, adapter.NewClock())
	return p, httpClient
}

// uploadedFile extracts the file part of a kubo add request
func uploadedFile(t *testing.T, contentType string, body []byte) []byte {
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())

	data, err := io.ReadAll(part)
	require.NoError(t, err)
	return data
}

func TestPut(t *testing.T) {
	ctx := context.Background()
	data := []byte(`{"name":"Launch party"}`)
	digest := providers.ContentHash(data)

	t.Run("pins and returns the CID reference", func(t *testing.T) {
		p, httpClient := newProvider(t)
		httpClient.EXPECT().
			Post(gomock.Any(), "http://localhost:5001/api/v0/add?pin=true&cid-version=1&raw-leaves=true&quieter=true", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, contentType string, body []byte) ([]byte, error) {
				assert.Equal(t, data, uploadedFile(t, contentType, body))
				return []byte(`{"Name":"` + digest + `","Hash":"bafkreitest","Size":"23"}`), nil
			})

		ref, err := p.Put(ctx, data, digest)
		require.NoError(t, err)
		assert.Equal(t, "ipfs://bafkreitest", ref.URI)
		assert.Equal(t, digest, ref.Hash)
		assert.Equal(t, len(data), ref.Size)
		assert.Equal(t, "application/json", ref.MimeType)
	})

	t.Run("identical bytes yield the same reference", func(t *testing.T) {
		p, httpClient := newProvider(t)
		httpClient.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"Hash":"bafkreitest"}`), nil).Times(2)

		first, err := p.Put(ctx, data, "")
		require.NoError(t, err)
		second, err := p.Put(ctx, data, "")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("hash mismatch never reaches the node", func(t *testing.T) {
		p, _ := newProvider(t)
		_, err := p.Put(ctx, data, providers.ContentHash([]byte("other")))
		assert.ErrorIs(t, err, domain.ErrContentHashMismatch)
	})

	t.Run("empty content", func(t *testing.T) {
		p, _ := newProvider(t)
		_, err := p.Put(ctx, nil, "")
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("node failure", func(t *testing.T) {
		p, httpClient := newProvider(t)
		httpClient.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		_, err := p.Put(ctx, data, "")
		se, ok := domain.AsStorageError(err)
		require.True(t, ok)
		assert.Equal(t, domain.ProviderContent, se.Provider)
		assert.Equal(t, "put", se.Operation)
	})

	t.Run("malformed response", func(t *testing.T) {
		p, httpClient := newProvider(t)
		httpClient.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"Name":"x"}`), nil)

		_, err := p.Put(ctx, data, "")
		assert.True(t, domain.IsStorageError(err))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("falls through to the next gateway", func(t *testing.T) {
		p, httpClient := newProvider(t)
		gomock.InOrder(
			httpClient.EXPECT().Get(gomock.Any(), "https://gw-a.example/ipfs/bafkreitest").Return(nil, errors.New("504")),
			httpClient.EXPECT().Get(gomock.Any(), "https://gw-b.example/ipfs/bafkreitest").Return([]byte("payload"), nil),
		)

		data, err := p.Get(ctx, "ipfs://bafkreitest")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("all gateways fail", func(t *testing.T) {
		p, httpClient := newProvider(t)
		httpClient.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("504")).Times(2)

		_, err := p.Get(ctx, "ipfs://bafkreitest")
		assert.True(t, domain.IsStorageError(err))
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		p, _ := newProvider(t)
		for _, uri := range []string{"s3://bucket/key", "ipfs://", "https://example.com"} {
			_, err := p.Get(ctx, uri)
			assert.True(t, domain.IsValidationError(err), uri)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	p := ipfs.NewProvider(ipfs.Config{APIURL: "http://localhost:5001"}, httpClient, clock)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.EXPECT().Now().Return(start).Times(2)
	clock.EXPECT().Since(start).Return(15 * time.Millisecond).Times(2)

	httpClient.EXPECT().Post(gomock.Any(), "http://localhost:5001/api/v0/version", "", nil).
		Return([]byte(`{"Version":"0.29.0"}`), nil)
	result := p.HealthCheck(context.Background())
	assert.True(t, result.OK)
	assert.Equal(t, 15*time.Millisecond, result.Latency)

	httpClient.EXPECT().Post(gomock.Any(), "http://localhost:5001/api/v0/version", "", nil).
		Return(nil, errors.New("connection refused"))
	result = p.HealthCheck(context.Background())
	assert.False(t, result.OK)
	assert.True(t, domain.IsStorageError(result.Error))
}
