package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/google/uuid"
)

func (r *FileRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return r.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for _, existing := range users {
			if existing.Email == u.Email {
				return nil, fmt.Errorf("email %q: %w", u.Email, ErrDuplicate)
			}
		}
		return append(users, *u), nil
	})
}

func (r *FileRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.users.Get(ctx, id)
	if err != nil {
		return nil, fileErr(err)
	}
	return &u, nil
}

func (r *FileRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	found, err := r.users.Scan(ctx, func(u models.User) bool { return u.Email == email })
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return &found[0], nil
}
