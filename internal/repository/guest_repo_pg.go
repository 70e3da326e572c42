package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const guestColumns = `id, first_name, last_name, email, phone, age, created_at`

type PGGuestRepository struct {
	db DBTX
}

func NewGuestRepository(db DBTX) GuestRepository {
	return &PGGuestRepository{db: db}
}

func (r *PGGuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error) {
	return r.one(ctx, `SELECT `+guestColumns+` FROM guests WHERE id=$1`, id)
}

func (r *PGGuestRepository) FindByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	return r.one(ctx, `SELECT `+guestColumns+` FROM guests WHERE email=$1`, domain.NormalizeEmail(email))
}

func (r *PGGuestRepository) Save(ctx context.Context, g *domain.Guest) error {
	_, err := r.db.Exec(ctx, `INSERT INTO guests (`+guestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			age = EXCLUDED.age`,
		g.ID, g.FirstName, g.LastName, g.Email, g.Phone, g.Age.Int(), g.CreatedAt)
	if isUniqueViolation(err) {
		return domain.Conflictf("guest with email %s already exists", g.Email)
	}
	if err != nil {
		return fmt.Errorf("save guest %s: %w", g.ID, err)
	}
	return nil
}

func (r *PGGuestRepository) one(ctx context.Context, query string, args ...any) (*domain.Guest, error) {
	var (
		g   domain.Guest
		age int
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone, &age, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g.Age = domain.GuestAge(age)
	return &g, nil
}

var _ GuestRepository = (*PGGuestRepository)(nil)
