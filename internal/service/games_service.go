package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"loungepos/internal/models"
	"loungepos/internal/notify"
	"loungepos/internal/store"
)

// GamesService owns the game catalog that fixed-rate sessions bill against.
type GamesService struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewGamesService builds service.
func NewGamesService(st store.Store, notifier Notifier, logger *zap.Logger) *GamesService {
	return &GamesService{store: st, notifier: notifier, logger: logger}
}

// GameInput carries operator-provided game attributes.
type GameInput struct {
	Name         string
	Genre        string
	PricePerGame *float64
}

func (in *GameInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Genre = strings.TrimSpace(in.Genre)
	if in.Name == "" {
		return fmt.Errorf("%w: game name is required", ErrValidation)
	}
	if in.PricePerGame != nil && *in.PricePerGame < 0 {
		return fmt.Errorf("%w: per-game price cannot be negative", ErrValidation)
	}
	return nil
}

// Create adds a game to the catalog.
func (g *GamesService) Create(ctx context.Context, input GameInput) (*models.Game, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	game := &models.Game{Name: input.Name, Genre: input.Genre, PricePerGame: input.PricePerGame}
	if err := g.store.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	g.notifier.Broadcast(notify.Event{Type: notify.EventGameCreated, Data: game})
	return game, nil
}

// Get returns one game.
func (g *GamesService) Get(ctx context.Context, id int64) (*models.Game, error) {
	return g.store.GetGame(ctx, id)
}

// List returns the catalog.
func (g *GamesService) List(ctx context.Context) ([]models.Game, error) {
	return g.store.ListGames(ctx)
}

// Update rewrites a game's attributes.
func (g *GamesService) Update(ctx context.Context, id int64, input GameInput) (*models.Game, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	game := &models.Game{ID: id, Name: input.Name, Genre: input.Genre, PricePerGame: input.PricePerGame}
	if err := g.store.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	updated, err := g.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	g.notifier.Broadcast(notify.Event{Type: notify.EventGameUpdated, Data: updated})
	return updated, nil
}

// Delete removes a game from the catalog. Historical sessions keep their
// game id; reports tolerate the dangling reference.
func (g *GamesService) Delete(ctx context.Context, id int64) error {
	if err := g.store.DeleteGame(ctx, id); err != nil {
		return err
	}
	g.logger.Info("game deleted", zap.Int64("game_id", id))
	g.notifier.Broadcast(notify.Event{Type: notify.EventGameDeleted, Data: map[string]int64{"id": id}})
	return nil
}
