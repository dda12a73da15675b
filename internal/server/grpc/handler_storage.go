package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/services"
)

func (s *GRPCServer) UploadPhoto(ctx context.Context, req *UploadPhotoRequest) (*services.UploadedObject, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Storage.UploadPhoto(ctx, userID, req.CampgroundID, req.Filename, req.Data)
}

// UploadAvatar stores the image and points the caller's profile at it.
func (s *GRPCServer) UploadAvatar(ctx context.Context, req *UploadAvatarRequest) (*services.UploadedObject, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	obj, err := s.svc.Storage.UploadAvatar(ctx, userID, req.Filename, req.Data)
	if err != nil {
		return nil, err
	}

	if _, err := s.svc.Profiles.UpdateProfile(ctx, userID, &models.ProfilePatch{AvatarURL: &obj.PublicURL}); err != nil {
		return nil, err
	}
	return obj, nil
}

// SavePhoto records an uploaded photo for the caller, optionally attached
// to one of the caller's entries.
func (s *GRPCServer) SavePhoto(ctx context.Context, req *SavePhotoRequest) (*models.Photo, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if req.JournalEntryID != nil {
		e, err := s.svc.Journal.GetEntry(ctx, *req.JournalEntryID)
		if err != nil {
			return nil, err
		}
		if e.UserID != userID {
			return nil, common.ErrorNotFound
		}
	}

	return s.svc.Storage.SavePhotoRecord(ctx, &models.Photo{
		UserID:         userID,
		CampgroundID:   req.CampgroundID,
		JournalEntryID: req.JournalEntryID,
		StoragePath:    req.StoragePath,
		PublicURL:      req.PublicURL,
		Caption:        req.Caption,
	})
}

func (s *GRPCServer) GetPhotos(ctx context.Context, req *EntryRequest) (*PhotosResponse, error) {
	res, err := s.svc.Storage.GetPhotosForEntry(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &PhotosResponse{Photos: res}, nil
}

func (s *GRPCServer) DeletePhoto(ctx context.Context, req *PhotoRequest) (*Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Storage.DeletePhotoRecord(ctx, userID, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *GRPCServer) PresignPhotoURL(ctx context.Context, req *PresignPhotoURLRequest) (*PresignPhotoURLResponse, error) {
	u, err := s.svc.Storage.PresignPhotoURL(ctx, req.Path)
	if err != nil {
		return nil, err
	}
	return &PresignPhotoURLResponse{URL: u}, nil
}
