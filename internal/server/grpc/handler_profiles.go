package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

// public hides the email address of everyone but the caller.
func public(p *models.Profile, userID string) *models.Profile {
	if p != nil && p.ID != userID {
		p.Email = ""
	}
	return p
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *GetProfileRequest) (*models.Profile, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	var p *models.Profile
	switch {
	case req.Username != "":
		p, err = s.svc.Profiles.GetProfileByUsername(ctx, req.Username)
	case req.ID != "":
		p, err = s.svc.Profiles.GetProfileByID(ctx, req.ID)
	default:
		p, err = s.svc.Profiles.GetProfileByID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return public(p, userID), nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *models.ProfilePatch) (*models.Profile, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Profiles.UpdateProfile(ctx, userID, req)
}

func (s *GRPCServer) SearchUsers(ctx context.Context, req *SearchUsersRequest) (*ProfilesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Profiles.SearchUsers(ctx, req.Query, req.Limit)
	if err != nil {
		return nil, err
	}
	for _, p := range res {
		public(p, userID)
	}
	return &ProfilesResponse{Profiles: res}, nil
}

func (s *GRPCServer) GetUserStats(ctx context.Context, req *UserRequest) (*models.UserStats, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserID != "" {
		userID = req.UserID
	}
	return s.svc.Profiles.GetUserStats(ctx, userID)
}

func (s *GRPCServer) Follow(ctx context.Context, req *UserRequest) (*models.Follow, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Follows.Follow(ctx, userID, req.UserID)
}

func (s *GRPCServer) Unfollow(ctx context.Context, req *UserRequest) (*Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Follows.Unfollow(ctx, userID, req.UserID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *GRPCServer) IsFollowing(ctx context.Context, req *UserRequest) (*IsFollowingResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.svc.Follows.IsFollowing(ctx, userID, req.UserID)
	if err != nil {
		return nil, err
	}
	return &IsFollowingResponse{Following: ok}, nil
}

func (s *GRPCServer) GetFollowStats(ctx context.Context, req *UserRequest) (*models.FollowStats, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserID != "" {
		userID = req.UserID
	}
	return s.svc.Follows.GetFollowStats(ctx, userID)
}
