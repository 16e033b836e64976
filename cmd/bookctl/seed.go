package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ashraf-g/book-review-api/model"
	bookrepo "github.com/ashraf-g/book-review-api/repository/book"
	reviewrepo "github.com/ashraf-g/book-review-api/repository/review"
	userrepo "github.com/ashraf-g/book-review-api/repository/user"
	"github.com/ashraf-g/book-review-api/util/hash"
)

const (
	seedUsers      = 25
	seedBooks      = 50
	minBookReviews = 4
	maxBookReviews = 8
)

var (
	seedGenres = []string{"Fiction", "Non-fiction", "Fantasy", "Science Fiction", "Mystery"}

	seedComments = []string{
		"Great read!",
		"I couldn't put it down.",
		"Interesting perspective.",
		"Well-written but a bit slow.",
		"Not my favorite, but worth reading.",
		"Loved the characters and storyline.",
		"A bit predictable, but still enjoyable.",
		"Couldn't finish it, too boring.",
		"An absolute page-turner!",
		"A masterpiece of storytelling.",
	}
)

type (
	userCreator   interface{ Create(ctx context.Context, u *model.User) error }
	bookCreator   interface{ Create(ctx context.Context, b *model.Book) error }
	reviewCreator interface{ Create(ctx context.Context, rv *model.Review) error }
)

type seeder struct {
	users   userCreator
	books   bookCreator
	reviews reviewCreator
	rng     *rand.Rand
	hash    func(string) (string, error)
}

type seedResult struct {
	Users, Books, Reviews int
}

func (s *seeder) run(ctx context.Context) (seedResult, error) {
	var res seedResult

	users := make([]*model.User, 0, seedUsers)
	for i := 1; i <= seedUsers; i++ {
		pw, err := s.hash(fmt.Sprintf("Password%d!", i))
		if err != nil {
			return res, err
		}
		role := model.RoleReader
		if i%5 == 0 {
			role = model.RoleModerator
		}
		u := &model.User{
			ID:           uuid.New(),
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: pw,
			Role:         role,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	for i := 1; i <= seedBooks; i++ {
		b := &model.Book{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("Sample Book %d", i),
			Author:      fmt.Sprintf("Author %d", i),
			Genre:       seedGenres[s.rng.IntN(len(seedGenres))],
			Description: fmt.Sprintf("This is a description for Sample Book %d.", i),
			AddedBy:     users[s.rng.IntN(len(users))].ID,
		}
		if err := s.books.Create(ctx, b); err != nil {
			return res, fmt.Errorf("seed book %q: %w", b.Title, err)
		}
		res.Books++

		// one review per user per book
		n := minBookReviews + s.rng.IntN(maxBookReviews-minBookReviews+1)
		for _, ui := range s.rng.Perm(len(users))[:n] {
			rv := &model.Review{
				ID:      uuid.New(),
				BookID:  b.ID,
				UserID:  users[ui].ID,
				Rating:  model.MinRating + s.rng.IntN(model.MaxRating-model.MinRating+1),
				Comment: seedComments[s.rng.IntN(len(seedComments))],
			}
			if err := s.reviews.Create(ctx, rv); err != nil {
				return res, fmt.Errorf("seed review: %w", err)
			}
			res.Reviews++
		}
	}
	return res, nil
}

func seedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, books and reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, log, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				if _, err := db.Pool.Exec(ctx, `TRUNCATE reviews, books, users`); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
				log.Info("existing data cleared")
			}

			s := &seeder{
				users:   userrepo.New(db),
				books:   bookrepo.New(db),
				reviews: reviewrepo.New(db),
				rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
				hash:    hash.HashPassword,
			}
			res, err := s.run(ctx)
			if err != nil {
				return err
			}
			log.Info("seed complete", "users", res.Users, "books", res.Books, "reviews", res.Reviews)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "truncate users, books and reviews first")
	return cmd
}
