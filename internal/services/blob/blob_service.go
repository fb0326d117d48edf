package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/asad/storagegateway/internal/core"
	"github.com/asad/storagegateway/internal/logging"
	"github.com/asad/storagegateway/internal/metrics"
)

const (
	authenticationMode = "workload_identity"
	uploadMessage      = "File uploaded successfully using managed identity"
)

// BlobService serves the gateway routes over a single Store and container.
// All fields are set at construction and never modified, so one instance is
// shared by every in-flight request.
type BlobService struct {
	store     Store
	account   string
	container string
	logger    logging.Logger
	now       func() time.Time
}

// Option configures a BlobService.
type Option func(*BlobService)

// WithClock replaces time.Now as the source of response and blob-name timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BlobService) {
		s.now = now
	}
}

// NewBlobService creates the gateway service for account/container over store.
func NewBlobService(store Store, account, container string, logger logging.Logger, opts ...Option) *BlobService {
	s := &BlobService{
		store:     store,
		account:   account,
		container: container,
		logger:    logger.With(logging.String("container", container)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the service identifier.
func (s *BlobService) Name() string {
	return "blob"
}

// RegisterRoutes sets up the gateway routes:
//   - GET /        - informational page
//   - GET /health  - container properties check
//   - GET /list    - list every blob in the container
//   - POST /upload - write a timestamped test blob
func (s *BlobService) RegisterRoutes(router chi.Router) {
	router.Get("/", s.handleHome)
	router.Get("/health", s.serve("unhealthy", "health check failed", s.health))
	router.Get("/list", s.serve("", "failed to list blobs", s.list))
	router.Post("/upload", s.serve("error", "failed to upload blob", s.upload))
}

// operation performs one storage call and returns the success body.
type operation func(ctx context.Context) (any, error)

// serve adapts an operation to an http.HandlerFunc. It is the only place a
// storage error becomes an HTTP response: the error is logged and sent back
// verbatim in a 500 envelope carrying failureStatus (omitted when empty).
func (s *BlobService) serve(failureStatus, failureMsg string, op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := op(r.Context())
		if err != nil {
			s.logger.Error(failureMsg, logging.ErrorField(err))
			s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Status:    failureStatus,
				Error:     err.Error(),
				Timestamp: s.timestamp(),
			})
			return
		}
		s.writeJSON(w, http.StatusOK, body)
	}
}

func (s *BlobService) health(ctx context.Context) (any, error) {
	err := s.store.GetContainerProperties(ctx)
	metrics.ObserveStorageOperation("get_container_properties", err)
	if err != nil {
		return nil, err
	}

	return HealthResponse{
		Status:         "healthy",
		StorageAccount: s.account,
		Container:      s.container,
		Authentication: authenticationMode,
		Timestamp:      s.timestamp(),
	}, nil
}

func (s *BlobService) list(ctx context.Context) (any, error) {
	infos, err := s.store.ListBlobs(ctx)
	metrics.ObserveStorageOperation("list_blobs", err)
	if err != nil {
		return nil, err
	}

	blobs := make([]BlobDescriptor, 0, len(infos))
	for _, info := range infos {
		blobs = append(blobs, describe(info))
	}

	s.logger.Info("listed blobs", logging.Int("count", len(blobs)))
	return ListResponse{
		Container: s.container,
		BlobCount: len(blobs),
		Blobs:     blobs,
		Timestamp: s.timestamp(),
	}, nil
}

func (s *BlobService) upload(ctx context.Context) (any, error) {
	// The name embeds the raw timestamp, colons included.
	ts := s.timestamp()
	name := fmt.Sprintf("test-file-%s.txt", ts)
	content := testFileContent(ts)

	err := s.store.UploadBlob(ctx, name, []byte(content))
	metrics.ObserveStorageOperation("upload_blob", err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("uploaded blob",
		logging.String("blob", name),
		logging.Int("size", len(content)),
	)
	return UploadResponse{
		Status:    "success",
		BlobName:  name,
		Container: s.container,
		Size:      len(content),
		Message:   uploadMessage,
		Timestamp: ts,
	}, nil
}

func testFileContent(ts string) string {
	return fmt.Sprintf("Test file created at %s\nThis file was uploaded using workload identity!\n", ts)
}

func (s *BlobService) timestamp() string {
	return isoformat(s.now())
}

func (s *BlobService) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", logging.ErrorField(err))
	}
}

var _ core.Service = (*BlobService)(nil)
