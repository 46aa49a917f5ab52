package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kids-academy-api/internal/models"
	appErrors "github.com/noah-isme/kids-academy-api/pkg/errors"
)

type fakeSelectionRepo struct {
	selections map[string]*models.Selection
	created    []*models.Selection
	deleted    []string
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{selections: map[string]*models.Selection{}}
}

func (f *fakeSelectionRepo) Create(_ context.Context, sel *models.Selection) error {
	if sel.ID == "" {
		sel.ID = "sel-generated"
	}
	f.selections[sel.ID] = sel
	f.created = append(f.created, sel)
	return nil
}

func (f *fakeSelectionRepo) ListByUser(_ context.Context, email string) ([]models.Selection, error) {
	var out []models.Selection
	for _, sel := range f.selections {
		if sel.UserEmail == email {
			out = append(out, *sel)
		}
	}
	return out, nil
}

func (f *fakeSelectionRepo) FindByID(_ context.Context, id string) (*models.Selection, error) {
	sel, ok := f.selections[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return sel, nil
}

func (f *fakeSelectionRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.selections[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.selections, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeClassReader struct {
	classes map[string]*models.ClassOffering
}

func (f *fakeClassReader) FindByID(_ context.Context, id string) (*models.ClassOffering, error) {
	class, ok := f.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return class, nil
}

func TestSelectionServiceAddSnapshotsClass(t *testing.T) {
	repo := newFakeSelectionRepo()
	classes := &fakeClassReader{classes: map[string]*models.ClassOffering{
		"class-1": {ID: "class-1", Title: "Chess", Price: 25},
	}}
	svc := NewSelectionService(repo, classes, nil, nil)

	sel, err := svc.Add(context.Background(), "alice@example.com", AddSelectionRequest{ClassID: "class-1"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", sel.UserEmail)
	require.Equal(t, "Chess", sel.ClassTitle)
	require.Equal(t, 25.0, sel.Price)
}

func TestSelectionServiceAddUnknownClass(t *testing.T) {
	svc := NewSelectionService(newFakeSelectionRepo(), &fakeClassReader{}, nil, nil)

	_, err := svc.Add(context.Background(), "alice@example.com", AddSelectionRequest{ClassID: "missing"})
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSelectionServiceAddAllowsDuplicates(t *testing.T) {
	repo := newFakeSelectionRepo()
	classes := &fakeClassReader{classes: map[string]*models.ClassOffering{
		"class-1": {ID: "class-1", Title: "Chess"},
	}}
	svc := NewSelectionService(repo, classes, nil, nil)

	first, err := svc.Add(context.Background(), "alice@example.com", AddSelectionRequest{ClassID: "class-1"})
	require.NoError(t, err)
	first.ID = "sel-1"
	repo.selections["sel-1"] = first

	_, err = svc.Add(context.Background(), "alice@example.com", AddSelectionRequest{ClassID: "class-1"})
	require.NoError(t, err)
	require.Len(t, repo.created, 2)
}

func TestSelectionServiceGetEnforcesOwnership(t *testing.T) {
	repo := newFakeSelectionRepo()
	repo.selections["sel-1"] = &models.Selection{ID: "sel-1", UserEmail: "alice@example.com"}
	svc := NewSelectionService(repo, &fakeClassReader{}, nil, nil)

	_, err := svc.Get(context.Background(), "sel-1", "mallory@example.com")
	require.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	sel, err := svc.Get(context.Background(), "sel-1", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "sel-1", sel.ID)
}

func TestSelectionServiceRemoveEnforcesOwnership(t *testing.T) {
	repo := newFakeSelectionRepo()
	repo.selections["sel-1"] = &models.Selection{ID: "sel-1", UserEmail: "alice@example.com"}
	svc := NewSelectionService(repo, &fakeClassReader{}, nil, nil)

	err := svc.Remove(context.Background(), "sel-1", "mallory@example.com")
	require.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	require.Empty(t, repo.deleted)

	err = svc.Remove(context.Background(), "sel-1", "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, []string{"sel-1"}, repo.deleted)
}

func TestSelectionServiceRemoveUnknownID(t *testing.T) {
	svc := NewSelectionService(newFakeSelectionRepo(), &fakeClassReader{}, nil, nil)

	err := svc.Remove(context.Background(), "missing", "alice@example.com")
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
