package usecase

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/sophieizhu/biodex/internal/model"
)

// SpeciesStore is what the service needs from the species repository.
type SpeciesStore interface {
	GetByID(ctx context.Context, id int64) (*model.Species, error)
	List(ctx context.Context) ([]model.Species, error)
	ListByAuthor(ctx context.Context, author model.UserID) ([]model.Species, error)
	Create(ctx context.Context, author model.UserID, p model.SpeciesPatch) (int64, error)
	Update(ctx context.Context, id int64, p model.SpeciesPatch) error
	Delete(ctx context.Context, id int64) error
}

// SpeciesService enforces ownership on writes. The per-field draft
// rules run earlier, at the form boundary; by the time a patch reaches
// the service it is normalized.
type SpeciesService struct {
	repo SpeciesStore
	log  hclog.Logger
}

func NewSpeciesService(repo SpeciesStore, logger hclog.Logger) *SpeciesService {
	return &SpeciesService{repo: repo, log: logger}
}

func (s *SpeciesService) GetByID(ctx context.Context, id int64) (*model.Species, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SpeciesService) List(ctx context.Context) ([]model.Species, error) {
	return s.repo.List(ctx)
}

// ListByAuthor backs the "my species" list filter.
func (s *SpeciesService) ListByAuthor(ctx context.Context, author model.UserID) ([]model.Species, error) {
	return s.repo.ListByAuthor(ctx, author)
}

func (s *SpeciesService) Create(ctx context.Context, author model.UserID, p model.SpeciesPatch) (int64, error) {
	if !p.Kingdom.Valid() {
		return 0, model.ErrBadKingdom
	}
	id, err := s.repo.Create(ctx, author, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("species created", "id", id, "author", author)
	return id, nil
}

func (s *SpeciesService) Update(ctx context.Context, viewer model.UserID, id int64, p model.SpeciesPatch) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !stored.OwnedBy(viewer) {
		return model.ErrNotOwner
	}
	if !p.Kingdom.Valid() {
		return model.ErrBadKingdom
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return err
	}
	s.log.Info("species updated", "id", id, "viewer", viewer)
	return nil
}

func (s *SpeciesService) Delete(ctx context.Context, viewer model.UserID, id int64) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !stored.OwnedBy(viewer) {
		return model.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("species deleted", "id", id, "viewer", viewer)
	return nil
}

// StoreFor binds the service to a viewer, producing the DataStore the
// editor talks to. Every write re-runs the ownership check inside the
// service.
func (s *SpeciesService) StoreFor(viewer model.UserID) DataStore {
	return viewerStore{svc: s, viewer: viewer}
}

type viewerStore struct {
	svc    *SpeciesService
	viewer model.UserID
}

func (v viewerStore) FetchRecord(ctx context.Context, id int64) (*model.Species, error) {
	return v.svc.GetByID(ctx, id)
}

func (v viewerStore) UpdateRecord(ctx context.Context, id int64, patch model.SpeciesPatch) error {
	return v.svc.Update(ctx, v.viewer, id, patch)
}

func (v viewerStore) DeleteRecord(ctx context.Context, id int64) error {
	return v.svc.Delete(ctx, v.viewer, id)
}
