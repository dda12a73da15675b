package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
)

func (s *GRPCServer) SearchPlaces(ctx context.Context, req *SearchPlacesRequest) (*PlacesResponse, error) {
	res, err := s.svc.Campgrounds.SearchPlaces(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return &PlacesResponse{Places: res}, nil
}

func (s *GRPCServer) ImportPlace(ctx context.Context, req *PlaceRequest) (*models.Campground, error) {
	return s.svc.Campgrounds.ImportPlace(ctx, req.PlaceID)
}

func (s *GRPCServer) GetOrCreateCampground(ctx context.Context, req *GetOrCreateCampgroundRequest) (*models.Campground, error) {
	return s.svc.Campgrounds.GetOrCreateCampground(ctx, req.PlaceID, req.Campground)
}

func (s *GRPCServer) GetCampground(ctx context.Context, req *GetCampgroundRequest) (*models.Campground, error) {
	if req.PlaceID != "" {
		return s.svc.Campgrounds.GetCampgroundByPlaceID(ctx, req.PlaceID)
	}
	return s.svc.Campgrounds.GetCampground(ctx, req.ID)
}

func (s *GRPCServer) ListCampgrounds(ctx context.Context, req *ListCampgroundsRequest) (*CampgroundsResponse, error) {
	res, err := s.svc.Campgrounds.ListCampgrounds(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	return &CampgroundsResponse{Campgrounds: res}, nil
}

func (s *GRPCServer) GetCampgroundStats(ctx context.Context, req *CampgroundRequest) (*models.CampgroundStats, error) {
	return s.svc.Campgrounds.GetCampgroundStats(ctx, req.CampgroundID)
}

func (s *GRPCServer) GetCampgroundVisitors(ctx context.Context, req *CampgroundRequest) (*ProfilesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Campgrounds.GetCampgroundVisitors(ctx, req.CampgroundID)
	if err != nil {
		return nil, err
	}
	for _, p := range res {
		public(p, userID)
	}
	return &ProfilesResponse{Profiles: res}, nil
}

func (s *GRPCServer) GetCampgroundEntries(ctx context.Context, req *CampgroundRequest) (*EntriesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Campgrounds.GetCampgroundEntries(ctx, req.CampgroundID)
	if err != nil {
		return nil, err
	}
	for _, e := range res {
		public(e.Author, userID)
	}
	return &EntriesResponse{Entries: res}, nil
}
