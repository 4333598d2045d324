package models

import (
	"fmt"
)

// 難易度。ゲーム作成時に固定され、Restartでのみ変更できる
type DifficultyLevel int

const (
	Easy DifficultyLevel = iota
	Hard
)

func (d DifficultyLevel) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Hard:
		return "Hard"
	}
	return fmt.Sprintf("DifficultyLevel(%d)", int(d))
}

func (d DifficultyLevel) MarshalText() ([]byte, error) {
	if d != Easy && d != Hard {
		return nil, fmt.Errorf("unknown difficulty level %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *DifficultyLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Easy", "easy":
		*d = Easy
	case "Hard", "hard":
		*d = Hard
	default:
		return fmt.Errorf("unknown difficulty level %q", string(text))
	}
	return nil
}

// 対戦者。Userは人間側、Programは自動プレイヤー
type Player int

const (
	User Player = iota
	Program
)

func (p Player) String() string {
	switch p {
	case User:
		return "User"
	case Program:
		return "Program"
	}
	return fmt.Sprintf("Player(%d)", int(p))
}

func (p Player) MarshalText() ([]byte, error) {
	if p != User && p != Program {
		return nil, fmt.Errorf("unknown player %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch string(text) {
	case "User":
		*p = User
	case "Program":
		*p = Program
	default:
		return fmt.Errorf("unknown player %q", string(text))
	}
	return nil
}

// GameConfig はゲーム開始時の小石の設定
type GameConfig struct {
	PebblesCount      uint32 `json:"pebbles_count"`
	MaxPebblesPerTurn uint32 `json:"max_pebbles_per_turn"`
}

// Validate は 1 <= MaxPebblesPerTurn <= PebblesCount を確認する
func (c GameConfig) Validate() error {
	if c.MaxPebblesPerTurn < 1 || c.MaxPebblesPerTurn > c.PebblesCount {
		return fmt.Errorf("max_pebbles_per_turn must be in [1, %d], got %d", c.PebblesCount, c.MaxPebblesPerTurn)
	}
	return nil
}

// GameState はゲームの読み取り専用スナップショット
type GameState struct {
	Difficulty        DifficultyLevel `json:"difficulty"`
	PebblesCount      uint32          `json:"pebbles_count"`
	MaxPebblesPerTurn uint32          `json:"max_pebbles_per_turn"`
	PebblesRemaining  uint32          `json:"pebbles_remaining"`
	FirstPlayer       Player          `json:"first_player"`
	Winner            *Player         `json:"winner"` // 対戦中はnil
}

// 勝者が決まっていればtrue
func (s GameState) IsOver() bool {
	return s.Winner != nil
}

// Clone はWinnerのポインタも複製したコピーを返す
func (s GameState) Clone() GameState {
	clone := s
	if s.Winner != nil {
		w := *s.Winner
		clone.Winner = &w
	}
	return clone
}

// Event はアクションに対するProgram側の応答
// CounterTurnはProgramが取った小石の数、Wonは勝者が決まったときにセットされる
type Event struct {
	CounterTurn uint32  `json:"counter_turn,omitempty"`
	Won         *Player `json:"won,omitempty"`
}

// 何も起きなかった場合はtrue（Userが先手のRestartなど）
func (e Event) IsEmpty() bool {
	return e.CounterTurn == 0 && e.Won == nil
}

func CounterTurnEvent(n uint32) Event {
	return Event{CounterTurn: n}
}

func WonEvent(p Player) Event {
	return Event{Won: &p}
}
