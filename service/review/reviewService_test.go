package reviewsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ashraf-g/book-review-api/model"
	reviewrepo "github.com/ashraf-g/book-review-api/repository/review"
	"github.com/ashraf-g/book-review-api/util/apperr"
)

var _ Repo = reviewrepo.Repo(nil)

type memRepo struct {
	reviews map[uuid.UUID]model.Review
	writes  int
}

func newRepo(rvs ...model.Review) *memRepo {
	m := &memRepo{reviews: map[uuid.UUID]model.Review{}}
	for _, rv := range rvs {
		m.reviews[rv.ID] = rv
	}
	return m
}

func (m *memRepo) ByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (m *memRepo) UpdateOwned(_ context.Context, id, userID uuid.UUID, rating int, comment string) (*model.Review, error) {
	m.writes++
	rv, ok := m.reviews[id]
	if !ok || rv.UserID != userID {
		return nil, nil
	}
	rv.Rating, rv.Comment = rating, comment
	m.reviews[id] = rv
	return &rv, nil
}

func (m *memRepo) DeleteOwned(_ context.Context, id, userID uuid.UUID) (bool, error) {
	m.writes++
	rv, ok := m.reviews[id]
	if !ok || rv.UserID != userID {
		return false, nil
	}
	delete(m.reviews, id)
	return true, nil
}

func seed() (*memRepo, model.Review) {
	rv := model.Review{ID: uuid.New(), BookID: uuid.New(), UserID: uuid.New(), Rating: 3, Comment: "meh"}
	return newRepo(rv), rv
}

func TestUpdate_Owner(t *testing.T) {
	repo, rv := seed()
	s := New(repo)

	got, err := s.Update(context.Background(), rv.ID.String(), rv.UserID, 5, "better on reread")
	require.NoError(t, err)
	require.Equal(t, 5, got.Rating)
	require.Equal(t, "better on reread", got.Comment)
	require.Equal(t, 5, repo.reviews[rv.ID].Rating)
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	repo, rv := seed()
	s := New(repo)

	_, err := s.Update(context.Background(), rv.ID.String(), uuid.New(), 1, "vandalism")
	require.Equal(t, apperr.ErrForbidden, apperr.Code(err))
	require.Equal(t, rv, repo.reviews[rv.ID])
	require.Zero(t, repo.writes)
}

func TestUpdate_InvalidRatingNoWrite(t *testing.T) {
	repo, rv := seed()
	s := New(repo)

	for _, r := range []float64{0, 6, 3.5} {
		_, err := s.Update(context.Background(), rv.ID.String(), rv.UserID, r, "x")
		require.Equal(t, apperr.ErrValidation, apperr.Code(err), r)
	}
	require.Equal(t, rv, repo.reviews[rv.ID])
	require.Zero(t, repo.writes)
}

func TestUpdate_InvalidIDAndNotFound(t *testing.T) {
	s := New(newRepo())

	_, err := s.Update(context.Background(), "nope", uuid.New(), 4, "x")
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))

	_, err = s.Update(context.Background(), uuid.NewString(), uuid.New(), 4, "x")
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestDelete_Owner(t *testing.T) {
	repo, rv := seed()
	s := New(repo)

	require.NoError(t, s.Delete(context.Background(), rv.ID.String(), rv.UserID))
	require.Empty(t, repo.reviews)

	err := s.Delete(context.Background(), rv.ID.String(), rv.UserID)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	repo, rv := seed()
	s := New(repo)

	err := s.Delete(context.Background(), rv.ID.String(), uuid.New())
	require.Equal(t, apperr.ErrForbidden, apperr.Code(err))
	require.Contains(t, repo.reviews, rv.ID)
	require.Zero(t, repo.writes)
}

func TestDelete_InvalidID(t *testing.T) {
	err := New(newRepo()).Delete(context.Background(), "12", uuid.New())
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))
}

type failingRepo struct{ memRepo }

func (f *failingRepo) ByID(context.Context, uuid.UUID) (*model.Review, error) {
	return nil, errors.New("db down")
}

func TestUpdate_StoreErrorIsUntyped(t *testing.T) {
	s := New(&failingRepo{})
	_, err := s.Update(context.Background(), uuid.NewString(), uuid.New(), 4, "x")
	require.Error(t, err)
	require.Equal(t, apperr.ErrCode(""), apperr.Code(err))
}
