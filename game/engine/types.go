package engine

// Outcome reports which seat, if any, scored during a single Step.
type Outcome int

const (
	NoScore Outcome = iota
	SeatOneScored
	SeatTwoScored
)

// String returns the wire name of the outcome
func (o Outcome) String() string {
	switch o {
	case SeatOneScored:
		return "player1_scored"
	case SeatTwoScored:
		return "player2_scored"
	default:
		return "none"
	}
}

const (
	// Default arena geometry, identical to what the rendering client draws with.
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultPaddleWidth  = 10
	DefaultPaddleHeight = 100
	DefaultBallRadius   = 10
	DefaultPaddleSpeed  = 8
	DefaultBallSpeedX   = 5
	DefaultBallSpeedY   = 5
	DefaultTickRate     = 60

	// Validation constants
	MinArenaSize   = 100
	MaxArenaSize   = 10000
	MinTickRate    = 1
	MaxTickRate    = 1000
	MaxSpeedFactor = 0.5 // speeds are capped at this fraction of the arena's smaller side per tick
)

// Paddle is an axis-aligned rectangle. X never changes after seat assignment.
type Paddle struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the vertical midpoint of the paddle
func (p Paddle) Center() float64 {
	return p.Y + p.Height/2
}

// Ball is the only moving body the kernel integrates.
type Ball struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// Arena holds the fixed constants shared by the kernel and any renderer.
// Both sides must agree on every value or collisions desync visually.
type Arena struct {
	Name         string  `json:"name" yaml:"name"`
	Description  string  `json:"description,omitempty" yaml:"description,omitempty"`
	Width        float64 `json:"width" yaml:"width"`
	Height       float64 `json:"height" yaml:"height"`
	PaddleWidth  float64 `json:"paddle_width" yaml:"paddle_width"`
	PaddleHeight float64 `json:"paddle_height" yaml:"paddle_height"`
	BallRadius   float64 `json:"ball_radius" yaml:"ball_radius"`
	PaddleSpeed  float64 `json:"paddle_speed" yaml:"paddle_speed"`
	BallSpeedX   float64 `json:"ball_speed_x" yaml:"ball_speed_x"`
	BallSpeedY   float64 `json:"ball_speed_y" yaml:"ball_speed_y"`
	TickRate     int     `json:"tick_rate" yaml:"tick_rate"`
}

// Coin decides the sign of each velocity component when the ball is served.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Coin interface {
	Intn(n int) int
}
