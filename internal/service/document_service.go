package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/observability"
	"github.com/noah-isme/remed-api/internal/repository"
)

var (
	// ErrDocumentTooLarge indicates the payload exceeded the configured limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum allowed size")
	// ErrDocumentTypeNotAllowed indicates the MIME type is not permitted.
	ErrDocumentTypeNotAllowed = errors.New("document type not allowed")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// DocumentService handles validation and persistence of student file uploads.
type DocumentService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, studentID *uint, uploaderID uint) (dto.DocumentResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.DocumentResponse, error)
}

type documentService struct {
	storage FileStorage
	repo    repository.DocumentRepository
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewDocumentService constructs a document service.
func NewDocumentService(storage FileStorage, repo repository.DocumentRepository, maxSizeMB int, logger zerolog.Logger) DocumentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &documentService{
		storage: storage,
		repo:    repo,
		logger:  logger.With().Str("component", "document_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/noah-isme/remed-api/internal/service/document"),
	}
}

func (s *documentService) Upload(ctx context.Context, file *multipart.FileHeader, studentID *uint, uploaderID uint) (dto.DocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "documents.store")
	defer span.End()

	span.SetAttributes(attribute.Int64("document.max_bytes", s.maxSize))
	if file != nil {
		span.SetAttributes(
			attribute.String("document.original_name", strings.TrimSpace(file.Filename)),
			attribute.Int64("document.request_size", file.Size),
		)
	} else {
		span.SetAttributes(attribute.Bool("document.file_present", false))
	}

	start := time.Now()
	defer func() {
		observability.DocumentUploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.DocumentResponse{}, err
	}

	if file.Size > s.maxSize {
		observability.DocumentUploadsRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrDocumentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.DocumentResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.DocumentResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.DocumentUploadsRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrDocumentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	fileType := normalizeDocumentMime(mime.String())
	span.SetAttributes(attribute.String("document.detected_mime", fileType))
	if !isAllowedDocumentType(fileType) {
		observability.DocumentUploadsRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrDocumentTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.DocumentResponse{}, ErrDocumentTypeNotAllowed
	}

	checksum := hex.EncodeToString(func() []byte {
		sum := sha256.Sum256(buf.Bytes())
		return sum[:]
	}())

	if existing, err := s.repo.FindByChecksum(ctx, checksum); err == nil {
		span.SetAttributes(attribute.Bool("document.deduplicated", true))
		s.logger.Info().Str("checksum", checksum).Msg("duplicate document upload deduplicated")
		return dto.NewDocumentResponse(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checksum lookup failed")
		return dto.DocumentResponse{}, err
	}

	sanitizedName := sanitizeDocumentName(file.Filename)
	span.SetAttributes(
		attribute.String("document.sanitized_name", sanitizedName),
		attribute.Int64("document.size_bytes", int64(buf.Len())),
	)

	url, err := s.storage.Upload(ctx, sanitizedName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.DocumentUploadsRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.DocumentResponse{}, err
	}

	record := models.Document{
		StudentID:  studentID,
		UploaderID: uploaderID,
		FileName:   sanitizedName,
		URL:        url,
		MimeType:   fileType,
		SizeBytes:  int64(buf.Len()),
		Checksum:   checksum,
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.DocumentResponse{}, err
	}

	observability.DocumentUploadsTotal().WithLabelValues(fileType).Inc()
	span.SetStatus(codes.Ok, "stored")

	return dto.NewDocumentResponse(record), nil
}

func (s *documentService) ListByStudent(ctx context.Context, studentID uint) ([]dto.DocumentResponse, error) {
	if studentID == 0 {
		return nil, errors.New("student id is required")
	}

	documents, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewDocumentResponseSlice(documents), nil
}

func sanitizeDocumentName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("document-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

func normalizeDocumentMime(m string) string {
	lower := strings.ToLower(strings.TrimSpace(m))
	if strings.HasPrefix(lower, "image/") {
		return "image"
	}
	return lower
}

func isAllowedDocumentType(m string) bool {
	switch m {
	case "image", "application/pdf":
		return true
	default:
		return false
	}
}
