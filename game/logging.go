package game

// logState logs a state transition with a summary of the world.
func (s *Session) logState(msg string) {
	w := s.world
	s.log.Info(msg,
		"tick", s.tick,
		"state", s.state.String(),
		"wave", w.Wave,
		"score", w.Score,
		"noodles", w.NoodleCount(),
		"projectiles", w.ProjectileCount(),
		"explosions", w.ExplosionCount(),
		"recording", s.replay.IsRecording(),
	)
}
