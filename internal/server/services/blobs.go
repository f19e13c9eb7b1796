package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/payloads"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
)

// MaxUploadSize caps a single uploaded file.
const MaxUploadSize = 5 << 20

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = 1_000_000 // keeps (page-1)*pageSize well inside a Postgres OFFSET
)

var allowedMimeTypes = map[models.AssetKind]map[string]bool{
	models.AssetImage: {
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	models.AssetResume: {
		"application/pdf": true,
	},
}

// UploadInput is one file to store.
type UploadInput struct {
	Kind         models.AssetKind
	Data         []byte
	MimeType     string
	OriginalName string
	UploadedBy   string
	// ProjectID attaches an image to a project. Ignored for résumés.
	ProjectID *string
}

// BlobService stores image and résumé payloads with their metadata.
type BlobService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	store       payloads.Store
	log         logging.Logger
	now         func() time.Time
}

func NewBlobService(db *sqlx.DB, m repomanager.RepositoryManager, store payloads.Store, log logging.Logger) *BlobService {
	return &BlobService{
		db:          db,
		repomanager: m,
		store:       store,
		log:         log.With("module", "blobs"),
		now:         time.Now,
	}
}

func checkUpload(in UploadInput) error {
	allowed, ok := allowedMimeTypes[in.Kind]
	if !ok {
		return newValidationError("kind", "unknown asset kind")
	}
	if len(in.Data) == 0 {
		return newValidationError("file", "no file uploaded")
	}
	if len(in.Data) > MaxUploadSize {
		return newValidationError("file", "file too large, the limit is 5MB")
	}
	if !allowed[strings.ToLower(in.MimeType)] {
		if in.Kind == models.AssetResume {
			return newValidationError("file", "only PDF files are allowed")
		}
		return newValidationError("file", "only JPEG, PNG, GIF and WebP images are allowed")
	}
	return nil
}

// generateFilename builds a collision resistant name from the prefix, the
// upload time, random hex and the slugged original base name.
func generateFilename(in UploadInput, now time.Time) (string, error) {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(in.OriginalName))

	if in.Kind == models.AssetResume {
		return fmt.Sprintf("resume-%d-%s.pdf", now.UnixMilli(), suffix), nil
	}

	base := slug.Make(strings.TrimSuffix(filepath.Base(in.OriginalName), filepath.Ext(in.OriginalName)))
	if base == "" {
		base = "image"
	}
	prefix := "img"
	if in.ProjectID != nil && *in.ProjectID != "" {
		prefix = "project_" + *in.ProjectID
	}
	return fmt.Sprintf("%s_%d_%s_%s%s", prefix, now.UnixMilli(), suffix, base, ext), nil
}

// Upload validates and stores a file. New images are active, new résumés are
// not until activated.
func (s *BlobService) Upload(ctx context.Context, in UploadInput) (*models.Asset, error) {
	if err := checkUpload(in); err != nil {
		return nil, err
	}
	if in.Kind != models.AssetImage || (in.ProjectID != nil && *in.ProjectID == "") {
		in.ProjectID = nil
	}
	if in.ProjectID != nil {
		if err := s.checkProject(ctx, *in.ProjectID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	filename, err := generateFilename(in, now)
	if err != nil {
		return nil, fmt.Errorf("generate filename: %w", err)
	}

	asset := &models.Asset{
		Kind:         in.Kind,
		Filename:     filename,
		OriginalName: in.OriginalName,
		MimeType:     strings.ToLower(in.MimeType),
		Size:         int64(len(in.Data)),
		StorageKey:   payloads.NewStorageKey(string(in.Kind), now),
		UploadedBy:   in.UploadedBy,
	}

	if err := s.store.Put(ctx, asset.StorageKey, in.Data, asset.MimeType); err != nil {
		return nil, fmt.Errorf("store payload: %w", err)
	}

	var created *models.Asset
	switch in.Kind {
	case models.AssetImage:
		asset.IsActive = true
		asset.ProjectID = in.ProjectID
		created, err = s.repomanager.Images(s.db).Create(ctx, asset)
	default:
		created, err = s.repomanager.Resumes(s.db).Create(ctx, asset)
	}
	if err != nil {
		if delErr := s.store.Delete(ctx, asset.StorageKey); delErr != nil {
			s.log.Warn(ctx, "orphaned payload", "key", asset.StorageKey, "error", delErr)
		}
		return nil, err
	}

	s.log.Info(ctx, "asset uploaded", "kind", in.Kind, "id", created.ID, "size", created.Size)
	return created, nil
}

func (s *BlobService) getMeta(ctx context.Context, kind models.AssetKind, id string) (*models.Asset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	switch kind {
	case models.AssetImage:
		a, err := s.repomanager.Images(s.db).Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !a.IsActive {
			return nil, common.ErrorNotFound
		}
		return a, nil
	case models.AssetResume:
		return s.repomanager.Resumes(s.db).Get(ctx, id)
	default:
		return nil, common.ErrorNotFound
	}
}

func (s *BlobService) load(ctx context.Context, a *models.Asset) (*models.AssetContent, error) {
	data, err := s.store.Get(ctx, a.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load payload: %w", err)
	}
	return &models.AssetContent{Asset: a, Data: data}, nil
}

// Fetch returns an asset with its bytes. Soft-deleted images are not found.
func (s *BlobService) Fetch(ctx context.Context, kind models.AssetKind, id string) (*models.AssetContent, error) {
	a, err := s.getMeta(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, a)
}

func (s *BlobService) ActiveResume(ctx context.Context) (*models.Asset, error) {
	return s.repomanager.Resumes(s.db).GetActive(ctx)
}

func (s *BlobService) FetchActiveResume(ctx context.Context) (*models.AssetContent, error) {
	a, err := s.ActiveResume(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, a)
}

// SoftDelete hides an image. Images still used by a project are refused.
func (s *BlobService) SoftDelete(ctx context.Context, imageID string) error {
	img, err := s.getMeta(ctx, models.AssetImage, imageID)
	if err != nil {
		return err
	}

	inUse, err := s.repomanager.Projects(s.db).ExistsWithImage(ctx, img.URL)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: image is used by a project", common.ErrConflict)
	}

	if err := s.repomanager.Images(s.db).SetActive(ctx, img.ID, false); err != nil {
		return err
	}
	s.log.Info(ctx, "image deleted", "id", img.ID)
	return nil
}

// checkProject reports an unknown or malformed project id as a validation
// error on projectId.
func (s *BlobService) checkProject(ctx context.Context, projectID string) error {
	if _, err := uuid.Parse(projectID); err != nil {
		return newValidationError("projectId", "unknown project")
	}
	if _, err := s.repomanager.Projects(s.db).Get(ctx, projectID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return newValidationError("projectId", "unknown project")
		}
		return err
	}
	return nil
}

// UpdateImage renames an image and/or moves it to another project. An empty
// projectID detaches it.
func (s *BlobService) UpdateImage(ctx context.Context, imageID string, filename, projectID *string) (*models.Asset, error) {
	img, err := s.getMeta(ctx, models.AssetImage, imageID)
	if err != nil {
		return nil, err
	}

	if filename != nil {
		name := strings.TrimSpace(*filename)
		if name == "" {
			return nil, newValidationError("filename", "is required")
		}
		img.Filename = name
	}
	if projectID != nil {
		if *projectID == "" {
			img.ProjectID = nil
		} else {
			if err := s.checkProject(ctx, *projectID); err != nil {
				return nil, err
			}
			img.ProjectID = projectID
		}
	}

	if err := s.repomanager.Images(s.db).UpdateMetadata(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// Activate makes one résumé the active one. The deactivate and activate
// writes share a transaction serialized by an advisory lock.
func (s *BlobService) Activate(ctx context.Context, resumeID string) (*models.Asset, error) {
	if _, err := uuid.Parse(resumeID); err != nil {
		return nil, common.ErrorNotFound
	}

	var activated *models.Asset
	err := dbx.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Resumes(tx)

		if err := repo.LockActivation(ctx); err != nil {
			return err
		}
		r, err := repo.Get(ctx, resumeID)
		if err != nil {
			return err
		}
		if err := repo.DeactivateAll(ctx); err != nil {
			return err
		}
		if err := repo.Activate(ctx, resumeID); err != nil {
			return err
		}
		r.IsActive = true
		activated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "resume activated", "id", resumeID)
	return activated, nil
}

// DeleteResume removes an inactive résumé and its payload.
func (s *BlobService) DeleteResume(ctx context.Context, resumeID string) error {
	r, err := s.getMeta(ctx, models.AssetResume, resumeID)
	if err != nil {
		return err
	}
	if r.IsActive {
		return fmt.Errorf("%w: cannot delete the active resume", common.ErrConflict)
	}

	key, err := s.repomanager.Resumes(s.db).DeleteInactive(ctx, r.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// activated or removed since the check above
			return fmt.Errorf("%w: cannot delete the active resume", common.ErrConflict)
		}
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "orphaned payload", "key", key, "error", err)
	}
	s.log.Info(ctx, "resume deleted", "id", r.ID)
	return nil
}

// NormalizePage clamps page and page size to sane bounds.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// List pages through asset metadata, newest first. Soft-deleted images are
// never listed.
func (s *BlobService) List(ctx context.Context, kind models.AssetKind, filter models.AssetFilter, page, pageSize int) (*models.Page[models.Asset], error) {
	if filter.ProjectID != "" {
		if _, err := uuid.Parse(filter.ProjectID); err != nil {
			return nil, newValidationError("projectId", "must be a valid id")
		}
	}
	page, pageSize = NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	var (
		items []models.Asset
		total int64
		err   error
	)

	switch kind {
	case models.AssetImage:
		filter.ActiveOnly = true
		repo := s.repomanager.Images(s.db)
		if total, err = repo.Count(ctx, filter); err != nil {
			return nil, err
		}
		items, err = repo.List(ctx, filter, pageSize, offset)
	case models.AssetResume:
		repo := s.repomanager.Resumes(s.db)
		if total, err = repo.Count(ctx); err != nil {
			return nil, err
		}
		items, err = repo.List(ctx, pageSize, offset)
	default:
		return nil, newValidationError("kind", "unknown asset kind")
	}
	if err != nil {
		return nil, err
	}

	return models.NewPage(items, total, page, pageSize), nil
}
