// service/game_manager.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/telechess-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotOwner     = errors.New("player does not own this game")
)

// GameManager is the registry of live game sessions.
type GameManager struct {
	games map[string]*model.Game
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

func NewGameManager(ttl time.Duration) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Run evicts idle games once per interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := gm.EvictIdle(); n > 0 {
				log.Infof("evicted %d idle games, %d remaining", n, gm.Count())
			}
		}
	}
}

// EvictIdle removes and closes every game that has seen no command for longer
// than the ttl. It returns how many were removed.
func (gm *GameManager) EvictIdle() int {
	gm.mu.Lock()
	cutoff := gm.now().Add(-gm.ttl)
	var evicted []*model.Game
	for id, game := range gm.games {
		if game.LastActive().Before(cutoff) {
			delete(gm.games, id)
			evicted = append(evicted, game)
		}
	}
	gm.mu.Unlock()

	for _, game := range evicted {
		game.Close()
	}
	return len(evicted)
}

func (gm *GameManager) CreateGame(ownerID string) *model.Game {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gameID := uuid.New().String()
	game := model.NewGame(gameID, ownerID)
	gm.games[gameID] = game
	log.Infof("created game %s for player %s", gameID, ownerID)
	return game
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

// OwnedGame returns the game if playerID owns it.
func (gm *GameManager) OwnedGame(gameID, playerID string) (*model.Game, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsOwner(playerID) {
		return nil, ErrNotOwner
	}
	return game, nil
}

func (gm *GameManager) RemoveGame(gameID, playerID string) error {
	game, err := gm.OwnedGame(gameID, playerID)
	if err != nil {
		return err
	}
	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()

	game.Close()
	log.Infof("removed game %s", gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
