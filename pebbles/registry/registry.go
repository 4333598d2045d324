// Package registry はプロセス内で進行中のゲームを管理する。
// ゲームごとにControllerを1つ持ち、同じゲームへの操作はセッション単位で直列化する。
package registry

import (
	"errors"
	"sync"
	"time"

	"pebbleserver/models"
	"pebbleserver/pebbles/game"
	"pebbleserver/pebbles/strategy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotOwner     = errors.New("game belongs to another player")
)

// Finished は終了したゲームの情報。FinishFuncに渡される
type Finished struct {
	GameID   string
	PlayerID string
	State    models.GameState
	Turns    int
	GaveUp   bool
}

// FinishFunc はゲームが終了状態に遷移するたびに1回呼ばれる
type FinishFunc func(Finished)

type session struct {
	mu         sync.Mutex
	id         string
	ownerID    string
	controller *game.Controller
	updatedAt  time.Time
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	onFinish FinishFunc
	logger   *zap.Logger

	// テストで差し替える
	newRand func() strategy.RandSource
	now     func() time.Time
}

// New はRegistryを作成する。onFinishはnilでもよい
func New(onFinish FinishFunc, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		onFinish: onFinish,
		logger:   logger,
		newRand:  func() strategy.RandSource { return createLocalRandGenerator() },
		now:      time.Now,
	}
}

// Create は新しいゲームを作成し、そのIDと初期状態を返す
func (r *Registry) Create(ownerID string, cfg models.GameConfig, difficulty models.DifficultyLevel) (string, models.GameState, models.Event, error) {
	logger := r.logger.With(zap.String("playerID", ownerID))
	controller, err := game.New(cfg, difficulty, r.newRand(), logger)
	if err != nil {
		return "", models.GameState{}, models.Event{}, err
	}

	s := &session{
		id:         uuid.New().String(),
		ownerID:    ownerID,
		controller: controller,
		updatedAt:  r.now(),
	}
	state := controller.State()
	if state.IsOver() {
		// Programが初手で山を取り切った場合
		r.notify(r.snapshot(s))
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	r.logger.Info("New game created", zap.String("gameID", s.id), zap.String("playerID", ownerID))
	return s.id, state, controller.LastEvent(), nil
}

// Apply はアクションを処理し、処理後の状態とProgramの応答を返す
func (r *Registry) Apply(id, ownerID string, action game.Action) (models.GameState, models.Event, error) {
	s, err := r.lookup(id, ownerID)
	if err != nil {
		return models.GameState{}, models.Event{}, err
	}

	s.mu.Lock()
	wasOver := s.controller.State().IsOver()
	event, err := s.controller.HandleAction(action)
	if err != nil {
		state := s.controller.State()
		s.mu.Unlock()
		return state, models.Event{}, err
	}
	s.updatedAt = r.now()

	state := s.controller.State()
	_, restarted := action.(game.Restart)
	var finished *Finished
	if state.IsOver() && (restarted || !wasOver) {
		f := r.snapshot(s)
		finished = &f
	}
	s.mu.Unlock()

	// onFinishはDBへの書き込みを伴うのでロックの外で呼ぶ
	if finished != nil {
		r.notify(*finished)
	}
	return state, event, nil
}

// State は現在の状態を返す
func (r *Registry) State(id, ownerID string) (models.GameState, error) {
	s, err := r.lookup(id, ownerID)
	if err != nil {
		return models.GameState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.State(), nil
}

// Remove はプレイヤーが放棄したゲームを削除する。結果は記録しない
func (r *Registry) Remove(id, ownerID string) error {
	if _, err := r.lookup(id, ownerID); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

// SweepIdle はmaxIdle以上操作のないゲームを削除し、削除数を返す
func (r *Registry) SweepIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.updatedAt.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len は管理中のゲーム数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) lookup(id, ownerID string) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	if s.ownerID != ownerID {
		return nil, ErrNotOwner
	}
	return s, nil
}

// snapshot はs.muを保持した状態で呼ぶ
func (r *Registry) snapshot(s *session) Finished {
	return Finished{
		GameID:   s.id,
		PlayerID: s.ownerID,
		State:    s.controller.State(),
		Turns:    s.controller.Turns(),
		GaveUp:   s.controller.GaveUp(),
	}
}

func (r *Registry) notify(f Finished) {
	if r.onFinish != nil {
		r.onFinish(f)
	}
}
