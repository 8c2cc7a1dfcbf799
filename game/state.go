package game

// State is the session's top-level mode.
type State int

const (
	Attract State = iota
	Playing
	GameOver
)

func (s State) String() string {
	switch s {
	case Attract:
		return "attract"
	case Playing:
		return "playing"
	case GameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}
