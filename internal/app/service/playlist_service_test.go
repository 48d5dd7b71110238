package service

import (
	"context"
	"testing"

	"codelab/internal/common"
	"codelab/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePlaylistRepo struct {
	playlists map[string]*model.Playlist
	members   map[string][]string
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists: map[string]*model.Playlist{},
		members:   map[string][]string{},
	}
}

func (f *fakePlaylistRepo) Create(ctx context.Context, p *model.Playlist) error {
	f.playlists[p.ID] = p
	return nil
}

func (f *fakePlaylistRepo) Delete(ctx context.Context, id, userID string) error {
	p, ok := f.playlists[id]
	if !ok || p.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.playlists, id)
	delete(f.members, id)
	return nil
}

func (f *fakePlaylistRepo) FindByIDForUser(ctx context.Context, id, userID string) (*model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok || p.UserID != userID {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakePlaylistRepo) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	out := []model.Playlist{}
	for _, p := range f.playlists {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) AddProblems(ctx context.Context, playlistID string, problemIDs []string) error {
	f.members[playlistID] = append(f.members[playlistID], problemIDs...)
	return nil
}

func (f *fakePlaylistRepo) RemoveProblems(ctx context.Context, playlistID string, problemIDs []string) error {
	remove := map[string]bool{}
	for _, id := range problemIDs {
		remove[id] = true
	}
	kept := f.members[playlistID][:0]
	for _, id := range f.members[playlistID] {
		if !remove[id] {
			kept = append(kept, id)
		}
	}
	f.members[playlistID] = kept
	return nil
}

func newPlaylistServiceForTest(repo *fakePlaylistRepo) *PlaylistService {
	return NewPlaylistService(repo, zap.NewNop().Sugar())
}

func TestCreatePlaylistRequiresName(t *testing.T) {
	svc := newPlaylistServiceForTest(newFakePlaylistRepo())

	_, err := svc.CreatePlaylist(context.Background(), "user-1", CreatePlaylistRequest{Description: "no name"})
	require.ErrorIs(t, err, common.ErrBadRequest)
}

func TestCreateAndListPlaylists(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newPlaylistServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreatePlaylist(ctx, "user-1", CreatePlaylistRequest{Name: "Interview prep"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)

	mine, err := svc.GetPlaylists(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := svc.GetPlaylists(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestAddProblemsChecksOwnership(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newPlaylistServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreatePlaylist(ctx, "user-1", CreatePlaylistRequest{Name: "Graphs"})
	require.NoError(t, err)

	err = svc.AddProblems(ctx, created.ID, "user-2", []string{"prob-1"})
	require.ErrorIs(t, err, common.ErrNotFound, "another user's playlist is invisible")
	assert.Empty(t, repo.members[created.ID])

	err = svc.AddProblems(ctx, created.ID, "user-1", []string{"prob-1", "prob-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"prob-1", "prob-2"}, repo.members[created.ID])
}

func TestAddProblemsRejectsEmptyList(t *testing.T) {
	svc := newPlaylistServiceForTest(newFakePlaylistRepo())

	err := svc.AddProblems(context.Background(), "pl-1", "user-1", nil)
	require.ErrorIs(t, err, common.ErrBadRequest)
}

func TestRemoveProblems(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newPlaylistServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreatePlaylist(ctx, "user-1", CreatePlaylistRequest{Name: "DP"})
	require.NoError(t, err)
	require.NoError(t, svc.AddProblems(ctx, created.ID, "user-1", []string{"prob-1", "prob-2"}))

	require.NoError(t, svc.RemoveProblems(ctx, created.ID, "user-1", []string{"prob-1"}))
	assert.Equal(t, []string{"prob-2"}, repo.members[created.ID])
}

func TestDeletePlaylistChecksOwnership(t *testing.T) {
	repo := newFakePlaylistRepo()
	svc := newPlaylistServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreatePlaylist(ctx, "user-1", CreatePlaylistRequest{Name: "Trees"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeletePlaylist(ctx, created.ID, "user-2"), common.ErrNotFound)
	require.NoError(t, svc.DeletePlaylist(ctx, created.ID, "user-1"))

	_, err = svc.GetPlaylist(ctx, created.ID, "user-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
