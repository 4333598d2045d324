package game

import (
	"fmt"

	"pebbleserver/models"
	"pebbleserver/pebbles/strategy"

	"go.uber.org/zap"
)

// Controller は1つのゲームの状態を所有し、唯一の更新者となる。
// ロックは持たないので、呼び出し側で1ゲームにつき1つずつ使うこと。
type Controller struct {
	round  round
	rng    strategy.RandSource
	logger *zap.Logger
}

// 1ゲーム分の状態。アクションはコピーに対して処理し、成功したときだけ差し替える
type round struct {
	state  models.GameState
	turns  int
	gaveUp bool
	event  models.Event
}

// New はゲームを初期化する。先手はrngで決め、Programが先手なら1手打ってから返す
func New(cfg models.GameConfig, difficulty models.DifficultyLevel, rng strategy.RandSource, logger *zap.Logger) (*Controller, error) {
	c := &Controller{rng: rng, logger: logger}
	r, err := c.initialize(cfg, difficulty)
	if err != nil {
		return nil, err
	}
	c.round = r
	return c, nil
}

// State は現在の状態のコピーを返す
func (c *Controller) State() models.GameState {
	return c.round.state.Clone()
}

// LastEvent は直前に受理されたアクション（または初期化）に対するProgramの応答
func (c *Controller) LastEvent() models.Event {
	return c.round.event
}

// Turns は現在のゲームで打たれた手の合計（User + Program）
func (c *Controller) Turns() int {
	return c.round.turns
}

// GaveUp はUserの降参で終了していればtrue
func (c *Controller) GaveUp() bool {
	return c.round.gaveUp
}

// HandleAction はアクションを処理する。エラーの場合状態は一切変わらない
func (c *Controller) HandleAction(action Action) (models.Event, error) {
	var (
		next round
		err  error
	)
	switch a := action.(type) {
	case Turn:
		next, err = c.turn(a.N)
	case GiveUp:
		next, err = c.giveUp()
	case Restart:
		next, err = c.initialize(a.config(), a.Difficulty)
	default:
		return models.Event{}, fmt.Errorf("unknown action %T", action)
	}
	if err != nil {
		c.logger.Info("Action rejected", zap.String("action", action.Name()), zap.Error(err))
		return models.Event{}, err
	}

	c.round = next
	return next.event, nil
}

func (c *Controller) initialize(cfg models.GameConfig, difficulty models.DifficultyLevel) (round, error) {
	if err := cfg.Validate(); err != nil {
		return round{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if difficulty != models.Easy && difficulty != models.Hard {
		return round{}, fmt.Errorf("%w: unknown difficulty %d", ErrInvalidConfig, int(difficulty))
	}

	// 先手をランダムに決定
	first := models.User
	if c.rng.Intn(2) == 1 {
		first = models.Program
	}

	r := round{
		state: models.GameState{
			Difficulty:        difficulty,
			PebblesCount:      cfg.PebblesCount,
			MaxPebblesPerTurn: cfg.MaxPebblesPerTurn,
			PebblesRemaining:  cfg.PebblesCount,
			FirstPlayer:       first,
		},
	}
	c.logger.Info("Game initialized",
		zap.Stringer("difficulty", difficulty),
		zap.Uint32("pebblesCount", cfg.PebblesCount),
		zap.Uint32("maxPebblesPerTurn", cfg.MaxPebblesPerTurn),
		zap.Stringer("firstPlayer", first),
	)

	// Programは入力を待たないので、先手ならここで1手打つ
	if first == models.Program {
		c.programTurn(&r)
	}
	return r, nil
}

func (c *Controller) turn(n uint32) (round, error) {
	r := c.copyRound()
	if r.state.IsOver() {
		return round{}, ErrGameAlreadyOver
	}
	limit := strategy.Limit(r.state.PebblesRemaining, r.state.MaxPebblesPerTurn)
	if n < 1 || n > limit {
		return round{}, fmt.Errorf("%w: %d is outside [1, %d]", ErrInvalidTurn, n, limit)
	}

	r.state.PebblesRemaining -= n
	r.turns++
	c.logger.Info("User turn", zap.Uint32("taken", n), zap.Uint32("remaining", r.state.PebblesRemaining))

	if r.state.PebblesRemaining == 0 {
		c.finish(&r, models.User)
		return r, nil
	}
	c.programTurn(&r)
	return r, nil
}

func (c *Controller) giveUp() (round, error) {
	r := c.copyRound()
	if r.state.IsOver() {
		// 終了後のGiveUpは遅れて届いたメッセージとして受理し、何も変えない
		r.event = models.WonEvent(*r.state.Winner)
		return r, nil
	}
	r.gaveUp = true
	c.logger.Info("User gave up", zap.Uint32("remaining", r.state.PebblesRemaining))
	c.finish(&r, models.Program)
	return r, nil
}

// programTurn はProgramの1手を打つ。山が空になればProgramの勝ち
func (c *Controller) programTurn(r *round) {
	m := strategy.SelectMove(c.rng, r.state.PebblesRemaining, r.state.MaxPebblesPerTurn, r.state.Difficulty)
	r.state.PebblesRemaining -= m
	r.turns++
	c.logger.Info("Program turn", zap.Uint32("taken", m), zap.Uint32("remaining", r.state.PebblesRemaining))

	if r.state.PebblesRemaining == 0 {
		c.finish(r, models.Program)
		return
	}
	r.event = models.CounterTurnEvent(m)
}

func (c *Controller) finish(r *round, winner models.Player) {
	w := winner
	r.state.Winner = &w
	r.event = models.WonEvent(winner)
	c.logger.Info("Game finished", zap.Stringer("winner", winner), zap.Int("turns", r.turns), zap.Bool("gaveUp", r.gaveUp))
}

func (c *Controller) copyRound() round {
	return round{
		state:  c.round.state.Clone(),
		turns:  c.round.turns,
		gaveUp: c.round.gaveUp,
	}
}
