package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/campjournal/internal/common"
	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"github.com/dmitrijs2005/campjournal/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sharingFixture struct {
	mock    sqlmock.Sqlmock
	rm      *fakeRepoManager
	store   *fakeStore
	journal *JournalService
}

// newSharingFixture seeds alice's published Yosemite entry with two photos.
func newSharingFixture(t *testing.T) *sharingFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)

	entryID := "e-alice"
	rm := &fakeRepoManager{
		profiles: &fakeProfiles{byID: map[string]*models.Profile{
			"alice": {ID: "alice", Username: "alice"},
			"bob":   {ID: "bob", Username: "bob"},
		}},
		campgrounds: newFakeCampgrounds(&models.Campground{ID: "cg-yos", GooglePlaceID: "yos", Name: "Yosemite"}),
		entries: newFakeEntries(&models.JournalEntry{
			ID: entryID, UserID: "alice", CampgroundID: "cg-yos",
			StartDate: day("2024-06-01"), EndDate: day("2024-06-03"),
			Notes: strPtr("bears!"), VideoURL: strPtr("https://video.example/1"),
			IsFavorite: true, Status: common.StatusPublished,
		}),
		photos: &fakePhotos{rows: []*models.Photo{
			{ID: "ph-1", UserID: "alice", CampgroundID: "cg-yos", JournalEntryID: &entryID, StoragePath: "alice/cg-yos/1-a.jpg", PublicURL: "u1"},
			{ID: "ph-2", UserID: "alice", CampgroundID: "cg-yos", JournalEntryID: &entryID, StoragePath: "alice/cg-yos/2-b.jpg", PublicURL: "u2", Caption: strPtr("sunset")},
		}},
		follows: &fakeFollows{},
	}

	store := newFakeStore()
	log := logging.Nop()
	st := &StorageService{db: db, repomanager: rm, store: store, photoBucket: "photos", log: log, now: time.Now}
	cg := &CampgroundService{db: db, repomanager: rm, log: log}

	return &sharingFixture{
		mock:    mock,
		rm:      rm,
		store:   store,
		journal: NewJournalService(db, rm, cg, st, log),
	}
}

func TestShareEntry_CreatesDraftForRecipient(t *testing.T) {
	f := newSharingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	draft, err := f.journal.ShareEntry(context.Background(), "e-alice", "bob", "alice")
	require.NoError(t, err)

	assert.Equal(t, "bob", draft.UserID)
	assert.Equal(t, common.StatusDraft, draft.Status)
	assert.Equal(t, "alice", *draft.SharedFromUserID)
	assert.Equal(t, "e-alice", *draft.OriginalEntryID)
	assert.Equal(t, "bears!", *draft.Notes)
	assert.Equal(t, "https://video.example/1", *draft.VideoURL)
	assert.False(t, draft.IsFavorite)
	assert.True(t, draft.StartDate.Equal(day("2024-06-01")))
	assert.True(t, draft.EndDate.Equal(day("2024-06-03")))

	require.Len(t, draft.Photos, 2)
	for i, p := range draft.Photos {
		assert.Equal(t, "bob", p.UserID)
		assert.Equal(t, draft.ID, *p.JournalEntryID)
		assert.Equal(t, f.rm.photos.rows[i].StoragePath, p.StoragePath)
	}
	assert.Equal(t, "sunset", *draft.Photos[1].Caption)

	orig := f.rm.entries.rows["e-alice"]
	assert.Equal(t, "bob", *orig.SharedWithUserID)
	require.NotNil(t, orig.SharedAccepted)
	assert.False(t, *orig.SharedAccepted)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestShareEntry_DuplicatePendingDraft(t *testing.T) {
	f := newSharingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.journal.ShareEntry(context.Background(), "e-alice", "bob", "alice")
	require.NoError(t, err)

	_, err = f.journal.ShareEntry(context.Background(), "e-alice", "bob", "alice")
	assert.ErrorIs(t, err, common.ErrAlreadyShared)

	drafts, err := f.rm.entries.ListDrafts(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestShareEntry_UniqueIndexRace(t *testing.T) {
	f := newSharingFixture(t)
	f.rm.entries.createErr = common.ErrorAlreadyExists
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.journal.ShareEntry(context.Background(), "e-alice", "bob", "alice")
	assert.ErrorIs(t, err, common.ErrAlreadyShared)
}

func TestShareEntry_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		entryID   string
		recipient string
		sharer    string
		tx        bool
		want      error
	}{
		{name: "self share", entryID: "e-alice", recipient: "alice", sharer: "alice", want: common.ErrorValidation},
		{name: "no recipient", entryID: "e-alice", recipient: "", sharer: "alice", want: common.ErrorValidation},
		{name: "missing entry", entryID: "nope", recipient: "bob", sharer: "alice", tx: true, want: common.ErrorNotFound},
		{name: "not the owner", entryID: "e-alice", recipient: "alice", sharer: "bob", tx: true, want: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSharingFixture(t)
			if tt.tx {
				f.mock.ExpectBegin()
				f.mock.ExpectRollback()
			}

			_, err := f.journal.ShareEntry(context.Background(), tt.entryID, tt.recipient, tt.sharer)
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestShareEntry_PhotoCopyFailureRollsBack(t *testing.T) {
	f := newSharingFixture(t)
	f.rm.photos.createErr = errBoom
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.journal.ShareEntry(context.Background(), "e-alice", "bob", "alice")
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

// TestShareEntry_WritesShareInOneTransaction drives the SQL repositories so the
// draft insert, the photo copies and the share mark are all issued on the
// transaction that gets rolled back.
func TestShareEntry_WritesShareInOneTransaction(t *testing.T) {
	entryCols := []string{"id", "user_id", "campground_id", "start_date", "end_date", "notes", "video_url", "is_favorite", "status",
		"shared_from_user_id", "shared_with_user_id", "original_entry_id", "shared_accepted", "created_at", "updated_at"}
	photoCols := []string{"id", "user_id", "campground_id", "journal_entry_id", "storage_path", "public_url", "caption", "created_at"}

	tests := []struct {
		name      string
		failPhoto bool
	}{
		{name: "photo copy fails", failPhoto: true},
		{name: "share mark fails"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer db.Close()

			rm := repomanager.NewPostgresRepositoryManager()
			log := logging.Nop()
			st := &StorageService{db: db, repomanager: rm, store: newFakeStore(), photoBucket: "photos", log: log, now: time.Now}
			journal := NewJournalService(db, rm, &CampgroundService{db: db, repomanager: rm, log: log}, st, log)

			now := time.Now()
			mock.ExpectBegin()
			mock.ExpectQuery(`(?s)SELECT.*FROM journal_entries WHERE id = \$1`).
				WithArgs("e-alice").
				WillReturnRows(sqlmock.NewRows(entryCols).AddRow("e-alice", "alice", "cg-yos", day("2024-06-01"), day("2024-06-03"),
					"bears!", nil, true, "published", nil, nil, nil, nil, now, now))
			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("bob", "cg-yos", "alice", sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			mock.ExpectQuery(`INSERT\s+INTO\s+journal_entries`).
				WithArgs("bob", "cg-yos", sqlmock.AnyArg(), sqlmock.AnyArg(), "bears!", nil, false, "draft", "alice", "e-alice").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("e-draft", now, now))
			mock.ExpectQuery(`(?s)SELECT.*FROM photos WHERE journal_entry_id = \$1`).
				WithArgs("e-alice").
				WillReturnRows(sqlmock.NewRows(photoCols).AddRow("ph-1", "alice", "cg-yos", "e-alice", "alice/cg-yos/1-a.jpg", "u1", nil, now))

			copyPhoto := mock.ExpectQuery(`INSERT\s+INTO\s+photos`).
				WithArgs("bob", "cg-yos", "e-draft", "alice/cg-yos/1-a.jpg", "u1", nil)
			if tt.failPhoto {
				copyPhoto.WillReturnError(errBoom)
			} else {
				copyPhoto.WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("ph-9", now))
				mock.ExpectExec(`UPDATE\s+journal_entries\s+SET\s+shared_with_user_id`).
					WithArgs("e-alice", "bob").
					WillReturnError(errBoom)
			}
			mock.ExpectRollback()

			_, err = journal.ShareEntry(context.Background(), "e-alice", "bob", "alice")
			assert.ErrorIs(t, err, errBoom)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAcceptDraft(t *testing.T) {
	f := newSharingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	ctx := context.Background()

	draft, err := f.journal.ShareEntry(ctx, "e-alice", "bob", "alice")
	require.NoError(t, err)

	// only the recipient may accept
	_, err = f.journal.AcceptDraft(ctx, draft.ID, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := f.journal.AcceptDraft(ctx, draft.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, common.StatusPublished, got.Status)
	assert.True(t, *f.rm.entries.rows["e-alice"].SharedAccepted)

	published, err := f.journal.ListUserEntries(ctx, "bob", false)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Yosemite", published[0].Campground.Name)
	assert.Len(t, published[0].Photos, 2)

	// no longer a draft
	_, err = f.journal.AcceptDraft(ctx, draft.ID, "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAcceptDraft_SecondaryUpdateFailureIsSwallowed(t *testing.T) {
	f := newSharingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	ctx := context.Background()

	draft, err := f.journal.ShareEntry(ctx, "e-alice", "bob", "alice")
	require.NoError(t, err)

	f.rm.entries.acceptErr = errBoom
	got, err := f.journal.AcceptDraft(ctx, draft.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, common.StatusPublished, got.Status)
	assert.False(t, *f.rm.entries.rows["e-alice"].SharedAccepted)
}

func TestRejectDraft(t *testing.T) {
	f := newSharingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	ctx := context.Background()

	draft, err := f.journal.ShareEntry(ctx, "e-alice", "bob", "alice")
	require.NoError(t, err)

	require.NoError(t, f.journal.RejectDraft(ctx, draft.ID, "bob"))

	_, err = f.rm.entries.GetByID(ctx, draft.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	left, _ := f.rm.photos.ListByEntry(ctx, draft.ID)
	assert.Empty(t, left)

	// the original's photos and objects are untouched
	orig, _ := f.rm.photos.ListByEntry(ctx, "e-alice")
	assert.Len(t, orig, 2)
	assert.Empty(t, f.store.deletes)

	err = f.journal.RejectDraft(ctx, draft.ID, "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRejectDraft_ReleasesObjectsOnceOriginalIsGone(t *testing.T) {
	f := newSharingFixture(t)
	for i := 0; i < 3; i++ {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
	}
	ctx := context.Background()

	draft, err := f.journal.ShareEntry(ctx, "e-alice", "bob", "alice")
	require.NoError(t, err)

	// the draft rows still point at the objects
	require.NoError(t, f.journal.DeleteEntry(ctx, "alice", "e-alice"))
	assert.Empty(t, f.store.deletes)

	require.NoError(t, f.journal.RejectDraft(ctx, draft.ID, "bob"))
	assert.ElementsMatch(t, []string{
		"photos/alice/cg-yos/1-a.jpg",
		"photos/alice/cg-yos/2-b.jpg",
	}, f.store.deletes)
	assert.Empty(t, f.rm.photos.rows)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRejectDraft_PublishedEntryIsNotADraft(t *testing.T) {
	f := newSharingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	err := f.journal.RejectDraft(context.Background(), "e-alice", "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
