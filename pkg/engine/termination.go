package engine

import "github.com/jwebster45206/musilife/pkg/state"

// GameOverType names the cause of a loss.
type GameOverType string

const (
	GameOverHealth     GameOverType = "health"
	GameOverMotivation GameOverType = "motivation"
	GameOverOldAge     GameOverType = "old_age"
	GameOverBankruptcy GameOverType = "bankruptcy"
)

// MaxAge ends the game when reached.
const MaxAge = 120

// GameOver describes a terminal loss.
type GameOver struct {
	Type    GameOverType `json:"type"`
	Message string       `json:"message"`
	Age     int          `json:"age"`
}

// VictoryType names a win condition.
type VictoryType string

const (
	VictorySuperstar     VictoryType = "superstar"
	VictoryMillionaire   VictoryType = "millionaire"
	VictoryFulfilledLife VictoryType = "fulfilled_life"
)

// Victory is a win condition the player currently meets. Victories never end the game.
type Victory struct {
	Type    VictoryType `json:"type"`
	Message string      `json:"message"`
}

// DebtFloor is the lowest money balance allowed at an age before bankruptcy.
func DebtFloor(age int) float64 {
	switch {
	case age < 30:
		return -50
	case age < 40:
		return -1000
	default:
		return -5000
	}
}

// CheckGameOver returns the first loss condition met, or nil.
// Precedence: health, motivation, old age, bankruptcy.
func CheckGameOver(p *state.PlayerState) *GameOver {
	over := func(t GameOverType, msg string) *GameOver {
		return &GameOver{Type: t, Message: msg, Age: p.Age}
	}
	switch {
	case p.Resource(state.ResourceHealth) <= 0:
		return over(GameOverHealth, "Your health gave out. The music stops here.")
	case p.Resource(state.ResourceMotivation) <= 0:
		return over(GameOverMotivation, "You lost the will to keep making music.")
	case p.Age >= MaxAge:
		return over(GameOverOldAge, "You lived a long life. The final curtain falls.")
	case p.Resource(state.ResourceMoney) < DebtFloor(p.Age):
		return over(GameOverBankruptcy, "Your debts caught up with you. You are bankrupt.")
	}
	return nil
}

// CheckVictory returns every win condition the player currently meets.
func CheckVictory(p *state.PlayerState) []Victory {
	var wins []Victory
	if p.Resource(state.ResourceFame) > 90 && p.Resource(state.ResourceAudience) > 1_000_000 {
		wins = append(wins, Victory{Type: VictorySuperstar, Message: "You are a global superstar!"})
	}
	if p.Resource(state.ResourceMoney) > 1_000_000 {
		wins = append(wins, Victory{Type: VictoryMillionaire, Message: "You made your first million!"})
	}
	if p.Age > 60 && p.Resource(state.ResourceHappiness) > 80 && p.Resource(state.ResourceHealth) > 60 {
		wins = append(wins, Victory{Type: VictoryFulfilledLife, Message: "You lived a happy, healthy life in music."})
	}
	return wins
}
