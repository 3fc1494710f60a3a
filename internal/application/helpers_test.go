package application

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pawshelf/service-petphoto/internal/domain"
	petDomain "github.com/pawshelf/service-petphoto/internal/domain/pet"
	"github.com/pawshelf/service-petphoto/internal/events"
	"github.com/pawshelf/service-petphoto/internal/storage"
)

// fakePetRepo is an in-memory PetRepository. It enforces the same
// optimistic-lock precondition as the GORM repository: an update only
// succeeds when the aggregate's version is exactly one ahead of the
// last persisted version.
type fakePetRepo struct {
	pets      map[uuid.UUID]*petDomain.Pet
	versions  map[uuid.UUID]int64
	updateErr error
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{
		pets:     make(map[uuid.UUID]*petDomain.Pet),
		versions: make(map[uuid.UUID]int64),
	}
}

func (f *fakePetRepo) FindByID(_ context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return nil, domain.NewNotFoundError("Pet", id.String())
	}
	return p, nil
}

func (f *fakePetRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*petDomain.Pet, error) {
	var out []*petDomain.Pet
	for _, p := range f.pets {
		if p.OwnerID() == ownerID && p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePetRepo) FindAll(_ context.Context) ([]*petDomain.Pet, error) {
	out := make([]*petDomain.Pet, 0, len(f.pets))
	for _, p := range f.pets {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePetRepo) Save(_ context.Context, pet *petDomain.Pet) error {
	f.pets[pet.ID()] = pet
	f.versions[pet.ID()] = pet.Version()
	return nil
}

func (f *fakePetRepo) Update(_ context.Context, pet *petDomain.Pet) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if pet.Version() != f.versions[pet.ID()]+1 {
		return domain.NewConflictError("pet was modified by another transaction")
	}
	f.pets[pet.ID()] = pet
	f.versions[pet.ID()] = pet.Version()
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	topics []string
	events []*events.CloudEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic string, event *events.CloudEvent) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) lastEventType() string {
	if len(f.events) == 0 {
		return ""
	}
	return f.events[len(f.events)-1].Type
}

func newTestPhotoStore(t *testing.T) *storage.PhotoStore {
	t.Helper()
	store, err := storage.NewPhotoStore(filepath.Join(t.TempDir(), "pet-photos"))
	require.NoError(t, err)
	return store
}

func seedPet(t *testing.T, repo *fakePetRepo, ownerID uuid.UUID) *petDomain.Pet {
	t.Helper()
	p, err := petDomain.NewPet(ownerID, "Leo", "cat", "Maine Coon", testBirthDate)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}
