package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/providers"
)

const uriScheme = "ipfs://"

// Config holds the IPFS provider configuration
type Config struct {
	// APIURL is the kubo RPC endpoint, e.g. http://localhost:5001
	APIURL string
	// Gateways are tried in order when reading content
	Gateways []string
}

// addResponse is the kubo /api/v0/add response
type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

type provider struct {
	cfg        Config
	httpClient adapter.HTTPClient
	clock      adapter.Clock
}

// NewProvider creates a content provider backed by an IPFS node.
// Content is added with CIDv1 and raw leaves, so identical bytes always resolve to the same CID.
func NewProvider(cfg Config, httpClient adapter.HTTPClient, clock adapter.Clock) providers.ContentProvider {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	gateways := make([]string, 0, len(cfg.Gateways))
	for _, gw := range cfg.Gateways {
		gateways = append(gateways, strings.TrimRight(gw, "/"))
	}
	cfg.Gateways = gateways

	return &provider{
		cfg:        cfg,
		httpClient: httpClient,
		clock:      clock,
	}
}

func (p *provider) Name() domain.ProviderName {
	return domain.ProviderContent
}

// HealthCheck asks the node for its version
func (p *provider) HealthCheck(ctx context.Context) domain.HealthCheckResult {
	start := p.clock.Now()
	_, err := p.httpClient.Post(ctx, p.cfg.APIURL+"/api/v0/version", "", nil)
	return domain.HealthCheckResult{
		OK:      err == nil,
		Latency: p.clock.Since(start),
		Error:   domain.NewStorageError(domain.ProviderContent, "healthCheck", err),
	}
}

// Put adds and pins data on the node
func (p *provider) Put(ctx context.Context, data []byte, contentHash string) (*domain.ContentRef, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("content", "is empty")
	}

	digest, err := providers.VerifyContentHash(data, contentHash)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(digest, data)
	if err != nil {
		return nil, domain.NewStorageError(domain.ProviderContent, "put", err)
	}

	url := p.cfg.APIURL + "/api/v0/add?pin=true&cid-version=1&raw-leaves=true&quieter=true"
	respBody, err := p.httpClient.Post(ctx, url, contentType, body)
	if err != nil {
		return nil, domain.NewStorageError(domain.ProviderContent, "put", err)
	}

	var resp addResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, domain.NewStorageError(domain.ProviderContent, "put", fmt.Errorf("failed to decode add response: %w", err))
	}
	if resp.Hash == "" {
		return nil, domain.NewStorageError(domain.ProviderContent, "put", fmt.Errorf("add response carries no CID"))
	}

	logger.DebugCtx(ctx, "Pinned content",
		zap.String("cid", resp.Hash),
		zap.String("sha256", digest),
		zap.Int("size", len(data)))

	return &domain.ContentRef{
		URI:      uriScheme + resp.Hash,
		Hash:     digest,
		Size:     len(data),
		MimeType: mimetype.Detect(data).String(),
	}, nil
}

// Get reads content through the configured gateways, first success wins
func (p *provider) Get(ctx context.Context, uri string) ([]byte, error) {
	cid, err := parseURI(uri)
	if err != nil {
		return nil, err
	}
	if len(p.cfg.Gateways) == 0 {
		return nil, domain.NewStorageError(domain.ProviderContent, "get", fmt.Errorf("no IPFS gateways configured"))
	}

	var lastErr error
	for _, gw := range p.cfg.Gateways {
		data, err := p.httpClient.Get(ctx, fmt.Sprintf("%s/ipfs/%s", gw, cid))
		if err == nil {
			return data, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		logger.WarnCtx(ctx, "IPFS gateway failed, trying next",
			zap.String("gateway", gw),
			zap.String("cid", cid),
			zap.Error(err))
	}

	return nil, domain.NewStorageError(domain.ProviderContent, "get", lastErr)
}

// parseURI extracts the CID from an ipfs:// reference
func parseURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, uriScheme) {
		return "", domain.NewValidationError("uri", "must be an ipfs:// reference")
	}

	cid := strings.TrimPrefix(uri, uriScheme)
	cid = strings.TrimPrefix(cid, "ipfs/")
	if cid == "" {
		return "", domain.NewValidationError("uri", "missing CID")
	}
	return cid, nil
}

// multipartBody builds the single-file form kubo expects
func multipartBody(name string, data []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
