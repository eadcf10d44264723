package item

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

type fakeRepo struct {
	byID map[id.ID]*Item

	created []*Item
	updated []*Item
}

func newFakeRepo(items ...*Item) *fakeRepo {
	f := &fakeRepo{byID: map[id.ID]*Item{}}
	for _, it := range items {
		f.byID[it.ID] = it
	}
	return f
}

func (f *fakeRepo) Create(ctx context.Context, it *Item) error {
	f.created = append(f.created, it)
	f.byID[it.ID] = it
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, it *Item) error {
	f.updated = append(f.updated, it)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	if it, ok := f.byID[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", itemID)
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*Item, error) {
	for _, it := range f.byID {
		if strings.EqualFold(it.Name, name) {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Item, error) { return nil, nil }
func (f *fakeRepo) Categories(ctx context.Context) ([]string, error)           { return nil, nil }

func TestCreateItem(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	it := NewItem("Arroz 1kg", "kg", "alimentação")
	assert.NoError(t, svc.Create(context.Background(), it))
	assert.Len(t, repo.created, 1)
	assert.True(t, it.Active)
}

func TestCreateItemDefaultsUnit(t *testing.T) {
	it := NewItem("Cobertor", "", "mobiliário")
	assert.Equal(t, "unidade", it.Unit)
}

func TestCreateItemDuplicateName(t *testing.T) {
	existing := NewItem("Arroz 1kg", "kg", "alimentação")
	repo := newFakeRepo(existing)
	svc := NewService(repo)

	err := svc.Create(context.Background(), NewItem("arroz 1KG", "kg", "alimentação"))
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestCreateItemMissingName(t *testing.T) {
	err := NewService(newFakeRepo()).Create(context.Background(), NewItem("  ", "kg", ""))
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDeactivateIsIdempotent(t *testing.T) {
	it := NewItem("Arroz 1kg", "kg", "alimentação")
	repo := newFakeRepo(it)
	svc := NewService(repo)

	assert.NoError(t, svc.Deactivate(context.Background(), it.ID))
	assert.False(t, it.Active)
	assert.Len(t, repo.updated, 1)

	assert.NoError(t, svc.Deactivate(context.Background(), it.ID))
	assert.Len(t, repo.updated, 1, "second call must not touch storage")
}

func TestDeactivateUnknownItem(t *testing.T) {
	err := NewService(newFakeRepo()).Deactivate(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
