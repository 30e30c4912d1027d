package engine

import (
	"math"
	"time"
)

// StepScale converts elapsed wall-clock time into a multiple of the nominal
// tick, so ball speed does not depend on how regularly ticks arrive.
func StepScale(elapsed time.Duration, tickRate int) float64 {
	if elapsed <= 0 || tickRate <= 0 {
		return 0
	}
	return elapsed.Seconds() * float64(tickRate)
}

// RestingBall returns a centred ball with zero velocity
func RestingBall(a Arena) Ball {
	return Ball{
		X:      a.Width / 2,
		Y:      a.Height / 2,
		Radius: a.BallRadius,
	}
}

// Serve recentres the ball and gives it base speed on both axes with a
// random sign per axis.
func Serve(a Arena, coin Coin) Ball {
	b := RestingBall(a)
	b.DX = randomSign(coin) * a.BallSpeedX
	b.DY = randomSign(coin) * a.BallSpeedY
	return b
}

func randomSign(coin Coin) float64 {
	if coin.Intn(2) == 0 {
		return -1
	}
	return 1
}

// DefaultPaddle returns the paddle for a freshly assigned seat: flush against
// its side wall and vertically centred.
func DefaultPaddle(a Arena, left bool) Paddle {
	x := 0.0
	if !left {
		x = a.Width - a.PaddleWidth
	}
	return Paddle{
		X:      x,
		Y:      (a.Height - a.PaddleHeight) / 2,
		Width:  a.PaddleWidth,
		Height: a.PaddleHeight,
	}
}

// Step advances the ball by one tick. Either paddle may be nil when its seat is
// empty. The checks run in a fixed order and later ones see positions already
// moved by earlier ones: integrate, walls, left paddle, right paddle, scoring.
// A scoring outcome always comes back with a freshly served ball.
func Step(a Arena, b Ball, left, right *Paddle, scale float64, coin Coin) (Ball, Outcome) {
	b.X += b.DX * scale
	b.Y += b.DY * scale

	if b.Y-b.Radius < 0 || b.Y+b.Radius > a.Height {
		b.DY = -b.DY
		b.Y = math.Max(b.Radius, math.Min(a.Height-b.Radius, b.Y))
	}

	if left != nil && b.DX < 0 &&
		b.X-b.Radius <= left.X+left.Width &&
		overlapsVertically(b, *left) {
		b.DX = -b.DX
		b.DY = hitOffset(b, *left) * a.BallSpeedY
		b.X = left.X + left.Width + b.Radius
	}

	if right != nil && b.DX > 0 &&
		b.X+b.Radius >= right.X &&
		overlapsVertically(b, *right) {
		b.DX = -b.DX
		b.DY = hitOffset(b, *right) * a.BallSpeedY
		b.X = right.X - b.Radius
	}

	switch {
	case b.X-b.Radius < 0:
		return Serve(a, coin), SeatTwoScored
	case b.X+b.Radius > a.Width:
		return Serve(a, coin), SeatOneScored
	}
	return b, NoScore
}

func overlapsVertically(b Ball, p Paddle) bool {
	return b.Y+b.Radius > p.Y && b.Y-b.Radius < p.Y+p.Height
}

// hitOffset is -1 at the paddle's top edge, 0 at its centre and 1 at its bottom.
func hitOffset(b Ball, p Paddle) float64 {
	half := p.Height / 2
	offset := (b.Y - p.Center()) / half
	return math.Max(-1, math.Min(1, offset))
}
