package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRoomRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewRoomRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewGuestRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewGuestRepository(pool)
	assert.NotNil(t, repo)
}
