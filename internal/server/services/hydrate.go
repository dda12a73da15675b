package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/campgrounds"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/photos"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/profiles"
)

func uniqueIDs(entries []*models.JournalEntry, id func(*models.JournalEntry) string) []string {
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		v := id(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	return ids
}

func attachCampgrounds(ctx context.Context, repo campgrounds.Repository, entries []*models.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	cgs, err := repo.ListByIDs(ctx, uniqueIDs(entries, func(e *models.JournalEntry) string { return e.CampgroundID }))
	if err != nil {
		return fmt.Errorf("error loading campgrounds: %w", err)
	}

	byID := make(map[string]*models.Campground, len(cgs))
	for _, c := range cgs {
		byID[c.ID] = c
	}
	for _, e := range entries {
		e.Campground = byID[e.CampgroundID]
	}
	return nil
}

func attachPhotos(ctx context.Context, repo photos.Repository, entries []*models.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ps, err := repo.ListByEntries(ctx, uniqueIDs(entries, func(e *models.JournalEntry) string { return e.ID }))
	if err != nil {
		return fmt.Errorf("error loading photos: %w", err)
	}

	byEntry := make(map[string][]*models.Photo, len(entries))
	for _, p := range ps {
		if p.JournalEntryID != nil {
			byEntry[*p.JournalEntryID] = append(byEntry[*p.JournalEntryID], p)
		}
	}
	for _, e := range entries {
		e.Photos = byEntry[e.ID]
	}
	return nil
}

func attachAuthors(ctx context.Context, repo profiles.Repository, entries []*models.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ps, err := repo.ListByIDs(ctx, uniqueIDs(entries, func(e *models.JournalEntry) string { return e.UserID }))
	if err != nil {
		return fmt.Errorf("error loading authors: %w", err)
	}

	byID := make(map[string]*models.Profile, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
	}
	for _, e := range entries {
		e.Author = byID[e.UserID]
	}
	return nil
}
