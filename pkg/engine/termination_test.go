package engine

import (
	"testing"

	"github.com/jwebster45206/musilife/pkg/state"
	"github.com/stretchr/testify/assert"
)

func TestCheckGameOver(t *testing.T) {
	tests := []struct {
		name       string
		age        int
		health     float64
		motivation float64
		money      float64
		want       GameOverType
	}{
		{name: "healthy player", age: 25, health: 50, motivation: 50, money: 0},
		{name: "health depleted", age: 25, health: 0, motivation: 50, money: 0, want: GameOverHealth},
		{name: "motivation depleted", age: 25, health: 50, motivation: 0, money: 0, want: GameOverMotivation},
		{name: "health beats motivation", age: 25, health: 0, motivation: 0, money: 0, want: GameOverHealth},
		{name: "old age", age: 120, health: 50, motivation: 50, money: 0, want: GameOverOldAge},
		{name: "old age beats bankruptcy", age: 121, health: 50, motivation: 50, money: -1e6, want: GameOverOldAge},
		{name: "health beats everything", age: 125, health: 0, motivation: 0, money: -1e6, want: GameOverHealth},
		{name: "young debt at floor", age: 29, health: 50, motivation: 50, money: -50},
		{name: "young debt past floor", age: 29, health: 50, motivation: 50, money: -51, want: GameOverBankruptcy},
		{name: "thirties debt at floor", age: 30, health: 50, motivation: 50, money: -1000},
		{name: "thirties debt past floor", age: 39, health: 50, motivation: 50, money: -1001, want: GameOverBankruptcy},
		{name: "forties debt at floor", age: 40, health: 50, motivation: 50, money: -5000},
		{name: "forties debt past floor", age: 80, health: 50, motivation: 50, money: -5001, want: GameOverBankruptcy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer()
			p.Age = tt.age
			p.SetResource(state.ResourceHealth, tt.health)
			p.SetResource(state.ResourceMotivation, tt.motivation)
			p.SetResource(state.ResourceMoney, tt.money)

			got := CheckGameOver(p)
			if tt.want == "" {
				if got != nil {
					t.Errorf("CheckGameOver() = %v, want nil", got.Type)
				}
				return
			}
			if got == nil {
				t.Fatalf("CheckGameOver() = nil, want %v", tt.want)
			}
			if got.Type != tt.want {
				t.Errorf("CheckGameOver() = %v, want %v", got.Type, tt.want)
			}
			if got.Age != tt.age {
				t.Errorf("age = %d, want %d", got.Age, tt.age)
			}
		})
	}
}

func TestDebtFloor(t *testing.T) {
	assert.Equal(t, -50.0, DebtFloor(15))
	assert.Equal(t, -1000.0, DebtFloor(30))
	assert.Equal(t, -5000.0, DebtFloor(40))
}

func victoryTypes(wins []Victory) []VictoryType {
	out := make([]VictoryType, 0, len(wins))
	for _, v := range wins {
		out = append(out, v.Type)
	}
	return out
}

func TestCheckVictory(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *state.PlayerState)
		want  []VictoryType
	}{
		{
			name:  "none",
			setup: func(p *state.PlayerState) {},
			want:  []VictoryType{},
		},
		{
			name: "superstar",
			setup: func(p *state.PlayerState) {
				p.SetResource(state.ResourceFame, 91)
				p.SetResource(state.ResourceAudience, 1_000_001)
			},
			want: []VictoryType{VictorySuperstar},
		},
		{
			name: "fame without audience",
			setup: func(p *state.PlayerState) {
				p.SetResource(state.ResourceFame, 95)
				p.SetResource(state.ResourceAudience, 1_000_000)
			},
			want: []VictoryType{},
		},
		{
			name:  "millionaire",
			setup: func(p *state.PlayerState) { p.SetResource(state.ResourceMoney, 1_000_001) },
			want:  []VictoryType{VictoryMillionaire},
		},
		{
			name: "fulfilled life",
			setup: func(p *state.PlayerState) {
				p.Age = 61
				p.SetResource(state.ResourceHappiness, 81)
				p.SetResource(state.ResourceHealth, 61)
			},
			want: []VictoryType{VictoryFulfilledLife},
		},
		{
			name: "all at once",
			setup: func(p *state.PlayerState) {
				p.Age = 70
				p.SetResource(state.ResourceFame, 100)
				p.SetResource(state.ResourceAudience, 2_000_000)
				p.SetResource(state.ResourceMoney, 5_000_000)
				p.SetResource(state.ResourceHappiness, 90)
				p.SetResource(state.ResourceHealth, 70)
			},
			want: []VictoryType{VictorySuperstar, VictoryMillionaire, VictoryFulfilledLife},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer()
			tt.setup(p)
			assert.Equal(t, tt.want, victoryTypes(CheckVictory(p)))
		})
	}
}
