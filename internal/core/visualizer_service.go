package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/storage"
)

// MaxUploadBytes caps visualizer photo uploads.
const MaxUploadBytes = 10 << 20

var (
	ErrUnsupportedMedia = errors.New("only JPEG, PNG and WebP images are accepted")
	ErrFileTooLarge     = errors.New("file exceeds the 10 MiB limit")
	ErrInvalidUserID    = errors.New("invalid userId")
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadResult locates a stored upload.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type visualizerService struct {
	objects  storage.ObjectStore
	projects db.ProjectRepository
}

// NewVisualizerService creates a VisualizerService.
func NewVisualizerService(objects storage.ObjectStore, projects db.ProjectRepository) VisualizerService {
	return &visualizerService{objects: objects, projects: projects}
}

// Upload stores an image under visualizer/<userId>/<uuid>.<ext>. The type is
// taken from the content itself; declaredType must agree when it is an image type.
func (s *visualizerService) Upload(ctx context.Context, userID, declaredType string, size int64, r io.Reader) (*UploadResult, error) {
	if userID == "" || strings.ContainsAny(userID, "/\\") || strings.Contains(userID, "..") {
		return nil, ErrInvalidUserID
	}
	if size > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedMedia
	}
	if declared, _, _ := strings.Cut(declaredType, ";"); declared != "" && declared != contentType && strings.HasPrefix(declared, "image/") {
		return nil, ErrUnsupportedMedia
	}

	path := fmt.Sprintf("visualizer/%s/%s.%s", userID, uuid.NewString(), ext)
	limited := &maxBytesReader{r: br, remaining: MaxUploadBytes}
	url, err := s.objects.Put(ctx, path, contentType, limited)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	return &UploadResult{URL: url, Path: path}, nil
}

// CreateProject stores a visualizer project in planning status.
func (s *visualizerService) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	now := time.Now().UTC()
	project.Status = models.ProjectStatusPlanning
	project.CreatedAt = now
	project.UpdatedAt = now
	if _, err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create visualizer project: %w", err)
	}
	return project, nil
}

// AddResult appends a generated image to the project's afterImages.
// GetProject returns the project or ErrNotFound.
func (s *visualizerService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: project '%s'", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to get project '%s': %w", projectID, err)
	}
	return project, nil
}

func (s *visualizerService) AddResult(ctx context.Context, projectID, imageURL string) (*models.Project, error) {
	project, err := s.projects.AppendAfterImage(ctx, projectID, imageURL)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: project '%s'", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to add result to project '%s': %w", projectID, err)
	}
	return project, nil
}

// maxBytesReader fails with ErrFileTooLarge once more than remaining bytes are read.
type maxBytesReader struct {
	r         io.Reader
	remaining int64
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > m.remaining+1 {
		p = p[:m.remaining+1]
	}
	n, err := m.r.Read(p)
	m.remaining -= int64(n)
	if m.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
