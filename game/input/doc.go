// Package input reads simulation worlds from the plain text input format.
//
// The first non-blank line holds the upper-right grid coordinates. Every robot
// then takes two lines, its start position and its instruction string:
//
//	5 3
//	1 1 E
//	RFRFRFRF
//	3 2 N
//	FRRFLLFFRRFLL
//
// Coordinates are limited to 0..50 and instruction strings to 100 commands.
// All errors wrap ErrInvalidInput and name the offending line.
package input
