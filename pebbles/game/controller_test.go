package game

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"pebbleserver/models"

	"go.uber.org/zap"
)

const (
	pebblesCount      uint32 = 72
	maxPebblesPerTurn uint32 = 5
)

// scriptedRand は決められた値を順に返す
type scriptedRand struct {
	t      *testing.T
	values []int
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.values) == 0 {
		s.t.Fatalf("scriptedRand exhausted (Intn(%d))", n)
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < 0 || v >= n {
		s.t.Fatalf("scripted value %d outside [0, %d)", v, n)
	}
	return v
}

func script(t *testing.T, values ...int) *scriptedRand {
	return &scriptedRand{t: t, values: values}
}

func newController(t *testing.T, cfg models.GameConfig, d models.DifficultyLevel, rng *scriptedRand) *Controller {
	t.Helper()
	c, err := New(cfg, d, rng, zap.NewNop())
	if err != nil {
		t.Fatalf("New(%+v) failed: %v", cfg, err)
	}
	return c
}

func defaultConfig() models.GameConfig {
	return models.GameConfig{PebblesCount: pebblesCount, MaxPebblesPerTurn: maxPebblesPerTurn}
}

// 元のテストと同じUserの手順
func userTurns(n int) []uint32 {
	turns := make([]uint32, 0, n)
	for count := 0; count < n; count++ {
		turn := uint32(count+31) % maxPebblesPerTurn
		if turn == 0 {
			if count%2 == 0 {
				turn = maxPebblesPerTurn
			} else {
				turn = 1
			}
		}
		turns = append(turns, turn)
	}
	return turns
}

func TestNewUserFirst(t *testing.T) {
	c := newController(t, defaultConfig(), models.Easy, script(t, 0))
	s := c.State()
	if s.PebblesRemaining != pebblesCount || s.PebblesCount != pebblesCount || s.MaxPebblesPerTurn != maxPebblesPerTurn {
		t.Fatalf("unexpected initial state %+v", s)
	}
	if s.FirstPlayer != models.User || s.Winner != nil || s.Difficulty != models.Easy {
		t.Fatalf("unexpected initial state %+v", s)
	}
	if !c.LastEvent().IsEmpty() || c.Turns() != 0 {
		t.Fatalf("expected no opening move, got event %+v turns %d", c.LastEvent(), c.Turns())
	}
}

func TestNewProgramFirstPlaysOpeningMove(t *testing.T) {
	// 72 は6の倍数なのでHardでも乱数で手を選ぶ: Intn(5)=2 -> 3個
	c := newController(t, defaultConfig(), models.Hard, script(t, 1, 2))
	s := c.State()
	if s.FirstPlayer != models.Program {
		t.Fatalf("expected Program to move first")
	}
	if s.PebblesRemaining != 69 {
		t.Fatalf("expected 69 pebbles after the opening move, got %d", s.PebblesRemaining)
	}
	if ev := c.LastEvent(); ev.CounterTurn != 3 || ev.Won != nil {
		t.Fatalf("expected CounterTurn(3), got %+v", ev)
	}
	if c.Turns() != 1 {
		t.Fatalf("expected 1 turn, got %d", c.Turns())
	}
}

func TestNewSinglePebbleProgramWinsImmediately(t *testing.T) {
	c := newController(t, models.GameConfig{PebblesCount: 1, MaxPebblesPerTurn: 1}, models.Hard, script(t, 1))
	s := c.State()
	if s.PebblesRemaining != 0 || s.Winner == nil || *s.Winner != models.Program {
		t.Fatalf("expected Program to win on the opening move, got %+v", s)
	}
	if ev := c.LastEvent(); ev.Won == nil || *ev.Won != models.Program {
		t.Fatalf("expected Won(Program), got %+v", ev)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  models.GameConfig
		diff models.DifficultyLevel
	}{
		{"zero max", models.GameConfig{PebblesCount: 10, MaxPebblesPerTurn: 0}, models.Easy},
		{"max above count", models.GameConfig{PebblesCount: 3, MaxPebblesPerTurn: 4}, models.Easy},
		{"empty pile", models.GameConfig{PebblesCount: 0, MaxPebblesPerTurn: 0}, models.Hard},
		{"unknown difficulty", defaultConfig(), models.DifficultyLevel(7)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.cfg, tc.diff, script(t, 0), zap.NewNop())
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if c != nil {
				t.Fatalf("expected no controller on failure")
			}
		})
	}
}

func TestTurnRejectedLeavesStateUnchanged(t *testing.T) {
	c := newController(t, models.GameConfig{PebblesCount: 20, MaxPebblesPerTurn: 5}, models.Hard, script(t, 0))
	// 20 -> 19、Programは 19 % 6 = 1 を取って残り18
	if _, err := c.HandleAction(Turn{N: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := c.State()
	beforeEvent := c.LastEvent()
	if before.PebblesRemaining != 18 {
		t.Fatalf("expected 18 remaining, got %d", before.PebblesRemaining)
	}

	for _, n := range []uint32{0, 6, 100} {
		_, err := c.HandleAction(Turn{N: n})
		if !errors.Is(err, ErrInvalidTurn) {
			t.Fatalf("Turn(%d): expected ErrInvalidTurn, got %v", n, err)
		}
		if after := c.State(); !reflect.DeepEqual(before, after) {
			t.Fatalf("Turn(%d) mutated state: %+v -> %+v", n, before, after)
		}
		if !reflect.DeepEqual(beforeEvent, c.LastEvent()) {
			t.Fatalf("Turn(%d) changed the last event", n)
		}
	}
}

func TestTurnAboveRemainingRejected(t *testing.T) {
	// 残り3で上限5: 4は不正
	c := newController(t, models.GameConfig{PebblesCount: 5, MaxPebblesPerTurn: 5}, models.Easy, script(t, 0, 0))
	if _, err := c.HandleAction(Turn{N: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Easy: Intn(4)=0 -> 1個, 残り3
	if got := c.State().PebblesRemaining; got != 3 {
		t.Fatalf("expected 3 remaining, got %d", got)
	}
	if _, err := c.HandleAction(Turn{N: 4}); !errors.Is(err, ErrInvalidTurn) {
		t.Fatalf("expected ErrInvalidTurn, got %v", err)
	}
}

func TestTurnProgramRepliesOptimally(t *testing.T) {
	c := newController(t, defaultConfig(), models.Hard, script(t, 0))
	ev, err := c.HandleAction(Turn{N: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 70 % 6 = 4
	if ev.CounterTurn != 4 || ev.Won != nil {
		t.Fatalf("expected CounterTurn(4), got %+v", ev)
	}
	s := c.State()
	if s.PebblesRemaining != 66 || s.Winner != nil {
		t.Fatalf("unexpected state %+v", s)
	}
	if c.Turns() != 2 {
		t.Fatalf("expected 2 turns, got %d", c.Turns())
	}
}

func TestUserWinsAndGameIsOver(t *testing.T) {
	c := newController(t, models.GameConfig{PebblesCount: 3, MaxPebblesPerTurn: 3}, models.Hard, script(t, 0))
	ev, err := c.HandleAction(Turn{N: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Won == nil || *ev.Won != models.User {
		t.Fatalf("expected Won(User), got %+v", ev)
	}
	over := c.State()
	if over.Winner == nil || *over.Winner != models.User || over.PebblesRemaining != 0 {
		t.Fatalf("unexpected final state %+v", over)
	}

	if _, err := c.HandleAction(Turn{N: 1}); !errors.Is(err, ErrGameAlreadyOver) {
		t.Fatalf("expected ErrGameAlreadyOver, got %v", err)
	}

	// 終了後のGiveUpは受理されるが状態は変わらない
	ev, err = c.HandleAction(GiveUp{})
	if err != nil {
		t.Fatalf("expected late GiveUp to be accepted, got %v", err)
	}
	if ev.Won == nil || *ev.Won != models.User {
		t.Fatalf("expected the existing winner to be reported, got %+v", ev)
	}
	if !reflect.DeepEqual(over, c.State()) || c.GaveUp() {
		t.Fatalf("late GiveUp mutated the finished game")
	}
}

func TestProgramWinsOnReply(t *testing.T) {
	c := newController(t, models.GameConfig{PebblesCount: 4, MaxPebblesPerTurn: 3}, models.Hard, script(t, 0))
	ev, err := c.HandleAction(Turn{N: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Won == nil || *ev.Won != models.Program {
		t.Fatalf("expected Won(Program), got %+v", ev)
	}
	if s := c.State(); s.PebblesRemaining != 0 || s.Winner == nil || *s.Winner != models.Program {
		t.Fatalf("unexpected final state %+v", s)
	}
}

// 1手の上限がuint32の最大値でも (max+1) の計算で落ちない
func TestLargestConfigHard(t *testing.T) {
	largest := models.GameConfig{PebblesCount: math.MaxUint32, MaxPebblesPerTurn: math.MaxUint32}

	c := newController(t, largest, models.Hard, script(t, 0))
	ev, err := c.HandleAction(Turn{N: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Won == nil || *ev.Won != models.Program {
		t.Fatalf("expected Program to take the rest and win, got %+v", ev)
	}
	if s := c.State(); s.PebblesRemaining != 0 || s.Winner == nil || *s.Winner != models.Program {
		t.Fatalf("unexpected final state %+v", s)
	}

	c = newController(t, largest, models.Hard, script(t, 1, 0))
	if s := c.State(); s.Winner == nil || *s.Winner != models.Program || s.PebblesRemaining != 0 {
		t.Fatalf("expected Program to take the whole pile on the opening move, got %+v", s)
	}
	if _, err := c.HandleAction(Restart{Difficulty: models.Hard, PebblesCount: math.MaxUint32, MaxPebblesPerTurn: math.MaxUint32}); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if s := c.State(); s.Winner != nil || s.PebblesRemaining != math.MaxUint32 {
		t.Fatalf("expected a fresh game with User to move, got %+v", s)
	}
}

func TestGiveUp(t *testing.T) {
	c := newController(t, defaultConfig(), models.Easy, script(t, 0))
	ev, err := c.HandleAction(GiveUp{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := c.State()
	if s.Winner == nil || *s.Winner != models.Program {
		t.Fatalf("expected Program to win after GiveUp, got %+v", s)
	}
	if s.PebblesRemaining != pebblesCount {
		t.Fatalf("GiveUp must not move pebbles, got %d", s.PebblesRemaining)
	}
	if ev.Won == nil || *ev.Won != models.Program || ev.CounterTurn != 0 {
		t.Fatalf("expected Won(Program) without a counter move, got %+v", ev)
	}
	if !c.GaveUp() {
		t.Fatalf("expected GaveUp to be recorded")
	}
}

func TestRestart(t *testing.T) {
	c := newController(t, defaultConfig(), models.Easy, script(t, 0, 0))
	if _, err := c.HandleAction(GiveUp{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev, err := c.HandleAction(Restart{Difficulty: models.Hard, PebblesCount: 15, MaxPebblesPerTurn: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := c.State()
	want := models.GameState{
		Difficulty:        models.Hard,
		PebblesCount:      15,
		MaxPebblesPerTurn: 2,
		PebblesRemaining:  15,
		FirstPlayer:       models.User,
	}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("unexpected state after restart: %+v", s)
	}
	if !ev.IsEmpty() || c.GaveUp() || c.Turns() != 0 {
		t.Fatalf("restart did not reset the game: event %+v gaveUp %v turns %d", ev, c.GaveUp(), c.Turns())
	}
}

func TestRestartProgramFirst(t *testing.T) {
	c := newController(t, defaultConfig(), models.Easy, script(t, 0, 1))
	ev, err := c.HandleAction(Restart{Difficulty: models.Hard, PebblesCount: 14, MaxPebblesPerTurn: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 14 % 3 = 2
	if ev.CounterTurn != 2 {
		t.Fatalf("expected CounterTurn(2), got %+v", ev)
	}
	if s := c.State(); s.FirstPlayer != models.Program || s.PebblesRemaining != 12 {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestRestartInvalidConfigKeepsGame(t *testing.T) {
	c := newController(t, defaultConfig(), models.Hard, script(t, 0))
	if _, err := c.HandleAction(Turn{N: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := c.State()
	turns := c.Turns()

	_, err := c.HandleAction(Restart{Difficulty: models.Easy, PebblesCount: 2, MaxPebblesPerTurn: 3})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !reflect.DeepEqual(before, c.State()) || turns != c.Turns() {
		t.Fatalf("failed restart replaced the game")
	}
}

func TestStateIsACopy(t *testing.T) {
	c := newController(t, models.GameConfig{PebblesCount: 2, MaxPebblesPerTurn: 2}, models.Easy, script(t, 0))
	if _, err := c.HandleAction(Turn{N: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := c.State()
	*s.Winner = models.Program
	s.PebblesRemaining = 99
	if got := c.State(); *got.Winner != models.User || got.PebblesRemaining != 0 {
		t.Fatalf("State leaked internal state: %+v", got)
	}
}

// User が半分以下まで進めてから降参する
func TestGiveUpEndToEnd(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		c, err := New(defaultConfig(), models.Hard, rng, zap.NewNop())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		turns := userTurns(int(pebblesCount))
		for i := 0; c.State().PebblesRemaining > pebblesCount/2; i++ {
			if _, err := c.HandleAction(Turn{N: turns[i]}); err != nil {
				t.Fatalf("seed %d turn %d: %v", seed, i, err)
			}
		}
		if _, err := c.HandleAction(GiveUp{}); err != nil {
			t.Fatalf("seed %d: GiveUp failed: %v", seed, err)
		}
		if s := c.State(); s.Winner == nil || *s.Winner != models.Program {
			t.Fatalf("seed %d: expected Program to win, got %+v", seed, s)
		}
	}
}

// User が半分以下まで進めてからRestartする
func TestRestartEndToEnd(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		c, err := New(defaultConfig(), models.Hard, rng, zap.NewNop())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		turns := userTurns(int(pebblesCount))
		for i := 0; c.State().PebblesRemaining > pebblesCount/2; i++ {
			if _, err := c.HandleAction(Turn{N: turns[i]}); err != nil {
				t.Fatalf("seed %d turn %d: %v", seed, i, err)
			}
		}
		restart := Restart{Difficulty: models.Hard, PebblesCount: pebblesCount, MaxPebblesPerTurn: maxPebblesPerTurn}
		if _, err := c.HandleAction(restart); err != nil {
			t.Fatalf("seed %d: Restart failed: %v", seed, err)
		}
		s := c.State()
		if s.PebblesCount != pebblesCount || s.Difficulty != models.Hard || s.Winner != nil {
			t.Fatalf("seed %d: unexpected state after restart %+v", seed, s)
		}
		if s.FirstPlayer == models.Program {
			if s.PebblesRemaining >= s.PebblesCount {
				t.Fatalf("seed %d: expected the opening move to be played", seed)
			}
		} else if s.PebblesRemaining != s.PebblesCount {
			t.Fatalf("seed %d: expected a full pile, got %d", seed, s.PebblesRemaining)
		}
	}
}

// ランダムな対局で不変条件を確認する
func TestRandomPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		user := rand.New(rand.NewSource(seed * 31))
		cfg := models.GameConfig{PebblesCount: uint32(1 + user.Intn(60))}
		cfg.MaxPebblesPerTurn = uint32(1 + user.Intn(int(cfg.PebblesCount)))
		difficulty := models.DifficultyLevel(user.Intn(2))

		c, err := New(cfg, difficulty, rng, zap.NewNop())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for !c.State().IsOver() {
			before := c.State()
			limit := before.MaxPebblesPerTurn
			if before.PebblesRemaining < limit {
				limit = before.PebblesRemaining
			}
			n := uint32(1 + user.Intn(int(limit)))
			ev, err := c.HandleAction(Turn{N: n})
			if err != nil {
				t.Fatalf("seed %d: Turn(%d) failed: %v", seed, n, err)
			}
			after := c.State()
			if after.PebblesRemaining > before.PebblesRemaining {
				t.Fatalf("seed %d: pile grew", seed)
			}
			taken := before.PebblesRemaining - after.PebblesRemaining
			if taken < n || taken > n+after.MaxPebblesPerTurn {
				t.Fatalf("seed %d: %d pebbles removed for Turn(%d)", seed, taken, n)
			}
			if (after.Winner != nil) != (after.PebblesRemaining == 0) {
				t.Fatalf("seed %d: winner %v with %d remaining", seed, after.Winner, after.PebblesRemaining)
			}
			if after.Winner == nil && ev.CounterTurn != taken-n {
				t.Fatalf("seed %d: event %+v does not match %d taken", seed, ev, taken-n)
			}
		}
	}
}
