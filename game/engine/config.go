package engine

import (
	"fmt"
	"math"
	"time"
)

// DefaultArena returns the classic 800x600 arena
func DefaultArena() Arena {
	return Arena{
		Name:         "classic",
		Description:  "Classic 800x600 arena",
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		PaddleWidth:  DefaultPaddleWidth,
		PaddleHeight: DefaultPaddleHeight,
		BallRadius:   DefaultBallRadius,
		PaddleSpeed:  DefaultPaddleSpeed,
		BallSpeedX:   DefaultBallSpeedX,
		BallSpeedY:   DefaultBallSpeedY,
		TickRate:     DefaultTickRate,
	}
}

// TickInterval is the nominal duration of one tick
func (a Arena) TickInterval() time.Duration {
	return time.Second / time.Duration(a.TickRate)
}

// MaxPaddleY is the largest legal paddle Y
func (a Arena) MaxPaddleY() float64 {
	return a.Height - a.PaddleHeight
}

// ClampPaddleY keeps a paddle's top edge inside [0, Height-PaddleHeight].
func (a Arena) ClampPaddleY(y float64) float64 {
	return math.Max(0, math.Min(a.MaxPaddleY(), y))
}

// ValidateArena validates an arena for playability
func ValidateArena(a *Arena) error {
	if a == nil {
		return fmt.Errorf("arena validation: arena is nil")
	}
	if a.Name == "" {
		return fmt.Errorf("arena validation: name is required")
	}

	if a.Width < MinArenaSize || a.Width > MaxArenaSize {
		return fmt.Errorf("arena validation: width must be between %d and %d, got %g", MinArenaSize, MaxArenaSize, a.Width)
	}
	if a.Height < MinArenaSize || a.Height > MaxArenaSize {
		return fmt.Errorf("arena validation: height must be between %d and %d, got %g", MinArenaSize, MaxArenaSize, a.Height)
	}

	if a.PaddleWidth <= 0 || a.PaddleHeight <= 0 {
		return fmt.Errorf("arena validation: paddle dimensions must be positive, got %gx%g", a.PaddleWidth, a.PaddleHeight)
	}
	if a.PaddleHeight >= a.Height {
		return fmt.Errorf("arena validation: paddle_height (%g) must be smaller than height (%g)", a.PaddleHeight, a.Height)
	}
	if 2*a.PaddleWidth >= a.Width {
		return fmt.Errorf("arena validation: paddles (%g wide) do not fit in width %g", a.PaddleWidth, a.Width)
	}

	if a.BallRadius <= 0 {
		return fmt.Errorf("arena validation: ball_radius must be positive, got %g", a.BallRadius)
	}
	if 2*a.BallRadius >= a.Height {
		return fmt.Errorf("arena validation: ball (radius %g) does not fit in height %g", a.BallRadius, a.Height)
	}

	// Anything faster tunnels through a paddle in a single tick
	limit := MaxSpeedFactor * math.Min(a.Width, a.Height)
	if a.BallSpeedX <= 0 || a.BallSpeedX > limit {
		return fmt.Errorf("arena validation: ball_speed_x must be in (0, %g], got %g", limit, a.BallSpeedX)
	}
	if a.BallSpeedY <= 0 || a.BallSpeedY > limit {
		return fmt.Errorf("arena validation: ball_speed_y must be in (0, %g], got %g", limit, a.BallSpeedY)
	}
	if a.PaddleSpeed <= 0 || a.PaddleSpeed > a.Height {
		return fmt.Errorf("arena validation: paddle_speed must be in (0, %g], got %g", a.Height, a.PaddleSpeed)
	}

	if a.TickRate < MinTickRate || a.TickRate > MaxTickRate {
		return fmt.Errorf("arena validation: tick_rate must be between %d and %d, got %d", MinTickRate, MaxTickRate, a.TickRate)
	}

	return nil
}
