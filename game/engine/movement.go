package engine

import (
	"errors"
	"fmt"
)

var ErrUnknownOrientation = errors.New("unknown orientation")

const (
	turnLeft = iota
	turnRight
)

// rotations is indexed by [orientation][turn]
var rotations = [4][2]Orientation{
	North: {turnLeft: West, turnRight: East},
	East:  {turnLeft: North, turnRight: South},
	South: {turnLeft: East, turnRight: West},
	West:  {turnLeft: South, turnRight: North},
}

// RotateLeft returns the orientation after a left turn
func (o Orientation) RotateLeft() Orientation {
	return rotations[o][turnLeft]
}

// RotateRight returns the orientation after a right turn
func (o Orientation) RotateRight() Orientation {
	return rotations[o][turnRight]
}

// Forward returns the position one step ahead of p when facing o
func Forward(p Position, o Orientation) (Position, error) {
	switch o {
	case North:
		p.Y++
	case East:
		p.X++
	case South:
		p.Y--
	case West:
		p.X--
	default:
		return p, fmt.Errorf("%w: %d", ErrUnknownOrientation, int(o))
	}
	return p, nil
}
