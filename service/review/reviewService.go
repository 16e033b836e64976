package reviewsvc

import (
	"context"

	"github.com/google/uuid"

	"github.com/ashraf-g/book-review-api/model"
	"github.com/ashraf-g/book-review-api/util/apperr"
)

const (
	msgInvalidReviewID = "Invalid review ID"
	msgInvalidRating   = "Rating must be an integer between 1 and 5"
	msgReviewNotFound  = "Review not found"
	msgUpdateForbidden = "You are not authorized to update this review"
	msgDeleteForbidden = "You are not authorized to delete this review"
)

type Repo interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	UpdateOwned(ctx context.Context, id, userID uuid.UUID, rating int, comment string) (*model.Review, error)
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type Service interface {
	Update(ctx context.Context, reviewID string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error)
	Delete(ctx context.Context, reviewID string, callerID uuid.UUID) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Update(ctx context.Context, reviewID string, callerID uuid.UUID, rating float64, comment string) (*model.Review, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, msgInvalidReviewID, err)
	}
	stars, ok := model.RatingValue(rating)
	if !ok {
		return nil, apperr.Validation(msgInvalidRating)
	}
	if err := s.checkOwner(ctx, id, callerID, msgUpdateForbidden); err != nil {
		return nil, err
	}

	updated, err := s.r.UpdateOwned(ctx, id, callerID, stars, comment)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// deleted between the ownership check and the write
		return nil, apperr.NotFound(msgReviewNotFound)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, reviewID string, callerID uuid.UUID) error {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return apperr.Wrap(apperr.ErrValidation, msgInvalidReviewID, err)
	}
	if err := s.checkOwner(ctx, id, callerID, msgDeleteForbidden); err != nil {
		return err
	}

	deleted, err := s.r.DeleteOwned(ctx, id, callerID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(msgReviewNotFound)
	}
	return nil
}

func (s *service) checkOwner(ctx context.Context, id, callerID uuid.UUID, forbidden string) error {
	rv, err := s.r.ByID(ctx, id)
	if err != nil {
		return err
	}
	if rv == nil {
		return apperr.NotFound(msgReviewNotFound)
	}
	if rv.UserID != callerID {
		return apperr.Forbidden(forbidden)
	}
	return nil
}
