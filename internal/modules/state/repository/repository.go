package repository

import "github.com/herald-rss/herald/internal/modules/state/domain"

// Repository defines the interface for seen-state persistence
type Repository interface {
	Load() domain.State
	Save(state domain.State) error
}
