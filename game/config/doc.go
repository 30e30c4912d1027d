// Package config loads arena profiles.
//
// A profile is a YAML (.yaml, .yml) or JSON (.json) file in the configs
// directory whose fields mirror engine.Arena:
//
//	name: classic
//	width: 800
//	height: 600
//	paddle_width: 10
//	paddle_height: 100
//	ball_radius: 10
//	paddle_speed: 8
//	ball_speed_x: 5
//	ball_speed_y: 5
//	tick_rate: 60
//
// Fields a profile omits keep the classic values, so a profile only needs to
// state what it changes. Every loaded profile passes engine.ValidateArena.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	arena, err := manager.LoadArena("practice")
//	defaultArena := manager.GetDefault()
//	arenas, err := manager.ListArenas()
//
// The default is the "classic" profile when present, otherwise the first valid
// profile, otherwise the built-in classic arena. NewManager("") skips the
// filesystem entirely.
package config
