package usecase

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophieizhu/biodex/internal/model"
)

type memSpeciesStore struct {
	nextID  int64
	records map[int64]*model.Species
}

func newMemSpeciesStore() *memSpeciesStore {
	return &memSpeciesStore{nextID: 1, records: map[int64]*model.Species{}}
}

func (m *memSpeciesStore) GetByID(ctx context.Context, id int64) (*model.Species, error) {
	s, ok := m.records[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSpeciesStore) List(ctx context.Context) ([]model.Species, error) {
	var out []model.Species
	for _, s := range m.records {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSpeciesStore) ListByAuthor(ctx context.Context, author model.UserID) ([]model.Species, error) {
	var out []model.Species
	for _, s := range m.records {
		if s.Author == author {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSpeciesStore) Create(ctx context.Context, author model.UserID, p model.SpeciesPatch) (int64, error) {
	id := m.nextID
	m.nextID++
	s := &model.Species{ID: id, Author: author}
	s.ApplyPatch(p)
	m.records[id] = s
	return id, nil
}

func (m *memSpeciesStore) Update(ctx context.Context, id int64, p model.SpeciesPatch) error {
	s, ok := m.records[id]
	if !ok {
		return model.ErrNotFound
	}
	s.ApplyPatch(p)
	return nil
}

func (m *memSpeciesStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func newTestService(t *testing.T) (*SpeciesService, *memSpeciesStore) {
	t.Helper()
	store := newMemSpeciesStore()
	return NewSpeciesService(store, hclog.NewNullLogger()), store
}

func validPatch() model.SpeciesPatch {
	return model.SpeciesPatch{
		ScientificName: "Cavia porcellus",
		Kingdom:        model.KingdomAnimalia,
	}
}

func Test_Service_CreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", validPatch())
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cavia porcellus", got.ScientificName)
	assert.Equal(t, "u1", got.Author)
}

func Test_Service_CreateRejectsBadKingdom(t *testing.T) {
	svc, store := newTestService(t)

	p := validPatch()
	p.Kingdom = "Monera"
	_, err := svc.Create(context.Background(), "u1", p)

	require.ErrorIs(t, err, model.ErrBadKingdom)
	assert.Empty(t, store.records)
}

func Test_Service_UpdateEnforcesOwnership(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "u1", validPatch())
	require.NoError(t, err)

	p := validPatch()
	p.ScientificName = "Cavia aperea"

	err = svc.Update(ctx, "u2", id, p)
	require.ErrorIs(t, err, model.ErrNotOwner)
	assert.Equal(t, "Cavia porcellus", store.records[id].ScientificName)

	err = svc.Update(ctx, "u1", id, p)
	require.NoError(t, err)
	assert.Equal(t, "Cavia aperea", store.records[id].ScientificName)
}

func Test_Service_DeleteEnforcesOwnership(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "u1", validPatch())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "u2", id), model.ErrNotOwner)
	require.Contains(t, store.records, id)

	require.NoError(t, svc.Delete(ctx, "u1", id))
	require.NotContains(t, store.records, id)
}

func Test_Service_ListByAuthor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, "u1", validPatch())
	require.NoError(t, err)
	p := validPatch()
	p.ScientificName = "Amanita muscaria"
	p.Kingdom = model.KingdomFungi
	_, err = svc.Create(ctx, "u2", p)
	require.NoError(t, err)

	got, err := svc.ListByAuthor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine, got[0].ID)
}

func Test_Service_UpdateMissingRecord(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Update(context.Background(), "u1", 404, validPatch())
	require.ErrorIs(t, err, model.ErrNotFound)
}

// StoreFor binds the viewer so the editor's writes pass through the
// same ownership checks.
func Test_Service_StoreForReChecksOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id, err := svc.Create(ctx, "u1", validPatch())
	require.NoError(t, err)

	stranger := svc.StoreFor("u2")
	require.ErrorIs(t, stranger.UpdateRecord(ctx, id, validPatch()), model.ErrNotOwner)
	require.ErrorIs(t, stranger.DeleteRecord(ctx, id), model.ErrNotOwner)

	owner := svc.StoreFor("u1")
	require.NoError(t, owner.UpdateRecord(ctx, id, validPatch()))
	require.NoError(t, owner.DeleteRecord(ctx, id))
}
