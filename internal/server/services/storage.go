package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/config"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campjournal/internal/server/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// UploadedObject locates a stored file.
type UploadedObject struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

type StorageService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	store        storage.ObjectStore
	photoBucket  string
	avatarBucket string
	log          logging.Logger
	now          func() time.Time
}

func NewStorageService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, cfg *config.Config, log logging.Logger) *StorageService {
	return &StorageService{
		db:           db,
		repomanager:  m,
		store:        store,
		photoBucket:  cfg.S3PhotoBucket,
		avatarBucket: cfg.S3AvatarBucket,
		log:          log.With("module", "storage"),
		now:          time.Now,
	}
}

// checkImage enforces the upload size limit and sniffs the content type.
func checkImage(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", common.ErrorValidation)
	}
	if len(data) > common.MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrorValidation, common.MaxUploadSize)
	}

	mt := mimetype.Detect(data)
	if !slices.Contains(common.AllowedImageTypes, mt.String()) {
		return nil, fmt.Errorf("%w: unsupported file type %s", common.ErrorValidation, mt.String())
	}
	return mt, nil
}

// cleanFilename keeps the last path element and falls back to a random name.
func cleanFilename(name string, mt *mimetype.MIME) string {
	name = strings.TrimSpace(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return uuid.NewString() + mt.Extension()
	}
	return name
}

// UploadPhoto stores an image under <user>/<campground>/<unix ms>-<filename>.
func (s *StorageService) UploadPhoto(ctx context.Context, userID, campgroundID, filename string, data []byte) (*UploadedObject, error) {
	mt, err := checkImage(data)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%d-%s", userID, campgroundID, s.now().UnixMilli(), cleanFilename(filename, mt))

	if err := s.store.Put(ctx, s.photoBucket, key, data, mt.String()); err != nil {
		return nil, fmt.Errorf("error uploading photo: %w", err)
	}

	return &UploadedObject{Path: key, PublicURL: s.store.PublicURL(s.photoBucket, key)}, nil
}

// UploadAvatar replaces the user's avatar object. Removing the previous
// object is best effort.
func (s *StorageService) UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*UploadedObject, error) {
	mt, err := checkImage(data)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = mt.Extension()
	}
	key := fmt.Sprintf("%s/avatar%s", userID, ext)

	if err := s.store.Delete(ctx, s.avatarBucket, key); err != nil {
		s.log.Debug(ctx, "previous avatar not removed", "key", key, "error", err)
	}

	if err := s.store.Put(ctx, s.avatarBucket, key, data, mt.String()); err != nil {
		return nil, fmt.Errorf("error uploading avatar: %w", err)
	}

	return &UploadedObject{Path: key, PublicURL: s.store.PublicURL(s.avatarBucket, key)}, nil
}

func (s *StorageService) DeletePhotoObject(ctx context.Context, storagePath string) error {
	if err := s.store.Delete(ctx, s.photoBucket, storagePath); err != nil {
		return fmt.Errorf("error deleting photo object: %w", err)
	}
	return nil
}

func (s *StorageService) PresignPhotoURL(ctx context.Context, storagePath string) (string, error) {
	u, err := s.store.PresignGet(ctx, s.photoBucket, storagePath, presignTTL)
	if err != nil {
		return "", fmt.Errorf("error presigning photo url: %w", err)
	}
	return u, nil
}

func (s *StorageService) SavePhotoRecord(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	if p.StoragePath == "" {
		return nil, fmt.Errorf("%w: storage path is required", common.ErrorValidation)
	}

	p, err := s.repomanager.Photos(s.db).Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error saving photo: %w", err)
	}
	return p, nil
}

// GetPhotosForEntry lists an entry's photos, oldest first.
func (s *StorageService) GetPhotosForEntry(ctx context.Context, entryID string) ([]*models.Photo, error) {
	res, err := s.repomanager.Photos(s.db).ListByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("error listing photos: %w", err)
	}
	return res, nil
}

// DeletePhotoRecord removes one of the user's photo rows, then the object
// if no other row still points at it.
func (s *StorageService) DeletePhotoRecord(ctx context.Context, userID, photoID string) error {
	p, err := s.repomanager.Photos(s.db).Delete(ctx, photoID, userID)
	if err != nil {
		return fmt.Errorf("error deleting photo: %w", err)
	}

	s.releaseObjects(ctx, []*models.Photo{p})
	return nil
}

// releaseObjects deletes the storage objects of removed photo rows that are
// no longer referenced. Failures are logged only.
func (s *StorageService) releaseObjects(ctx context.Context, removed []*models.Photo) {
	repo := s.repomanager.Photos(s.db)
	seen := make(map[string]struct{}, len(removed))

	for _, p := range removed {
		if _, ok := seen[p.StoragePath]; ok {
			continue
		}
		seen[p.StoragePath] = struct{}{}

		n, err := repo.CountByStoragePath(ctx, p.StoragePath)
		if err != nil {
			s.log.Warn(ctx, "error counting photo references", "path", p.StoragePath, "error", err)
			continue
		}
		if n > 0 {
			continue
		}

		if err := s.DeletePhotoObject(ctx, p.StoragePath); err != nil {
			s.log.Warn(ctx, "error deleting photo object", "path", p.StoragePath, "error", err)
		}
	}
}
