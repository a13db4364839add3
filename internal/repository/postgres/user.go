package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/repository"
)

type userRepository struct {
	table[model.User]
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{newTable[model.User](base, "users", false,
		"id", "subject", "email", "name", "phone", "avatar_url", "role", "created_at", "updated_at")}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.insert(ctx, user)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.get(ctx, uuid.Nil, id)
}

func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	return r.one(ctx, newWhere().add("subject = $%d", subject))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx, newWhere().add("lower(email) = $%d", strings.ToLower(email)))
}

func (r *userRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	return r.getMany(ctx, uuid.Nil, ids)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.update(ctx, user)
}
