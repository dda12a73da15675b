package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/services"
)

func (s *GRPCServer) CreateEntry(ctx context.Context, req *services.EntryInput) (*models.JournalEntry, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Journal.CreateEntry(ctx, userID, req)
}

// GetEntry hides drafts from everyone but their owner.
func (s *GRPCServer) GetEntry(ctx context.Context, req *EntryRequest) (*models.JournalEntry, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.svc.Journal.GetEntry(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if e.IsDraft() && e.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

func (s *GRPCServer) UpdateEntry(ctx context.Context, req *UpdateEntryRequest) (*models.JournalEntry, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Journal.UpdateEntry(ctx, userID, req.ID, &req.Patch)
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *EntryRequest) (*Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Journal.DeleteEntry(ctx, userID, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// ListUserEntries lists the caller's journal or, with a user id, someone
// else's published entries.
func (s *GRPCServer) ListUserEntries(ctx context.Context, req *ListUserEntriesRequest) (*EntriesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	target, drafts := userID, req.IncludeDrafts
	if req.UserID != "" && req.UserID != userID {
		target, drafts = req.UserID, false
	}

	res, err := s.svc.Journal.ListUserEntries(ctx, target, drafts)
	if err != nil {
		return nil, err
	}
	return &EntriesResponse{Entries: res}, nil
}

func (s *GRPCServer) ListEntriesForCampground(ctx context.Context, req *CampgroundRequest) (*EntriesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Journal.ListEntriesForCampground(ctx, userID, req.CampgroundID)
	if err != nil {
		return nil, err
	}
	return &EntriesResponse{Entries: res}, nil
}

func (s *GRPCServer) GetFeed(ctx context.Context, _ *Empty) (*EntriesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Journal.GetFeed(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range res {
		public(e.Author, userID)
	}
	return &EntriesResponse{Entries: res}, nil
}

func (s *GRPCServer) ListVisitedLocations(ctx context.Context, req *UserRequest) (*VisitedLocationsResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserID != "" {
		userID = req.UserID
	}

	res, err := s.svc.Journal.ListVisitedLocations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &VisitedLocationsResponse{Locations: res}, nil
}

func (s *GRPCServer) LogVisit(ctx context.Context, req *services.VisitInput) (*services.VisitResult, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Journal.LogVisit(ctx, userID, req)
}

func (s *GRPCServer) ShareEntry(ctx context.Context, req *ShareEntryRequest) (*models.JournalEntry, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Journal.ShareEntry(ctx, req.EntryID, req.RecipientID, userID)
}

func (s *GRPCServer) AcceptDraft(ctx context.Context, req *DraftRequest) (*models.JournalEntry, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.svc.Journal.AcceptDraft(ctx, req.DraftID, userID)
}

func (s *GRPCServer) RejectDraft(ctx context.Context, req *DraftRequest) (*Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Journal.RejectDraft(ctx, req.DraftID, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *GRPCServer) ListDrafts(ctx context.Context, _ *Empty) (*EntriesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.svc.Journal.ListDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &EntriesResponse{Entries: res}, nil
}
