package domain

import "errors"

var (
	// ErrAlreadyActive is returned when a quiz is started while one is in progress
	ErrAlreadyActive = errors.New("quiz already in progress")
	// ErrEmptyItemSet is returned when there is nothing due to quiz on
	ErrEmptyItemSet = errors.New("no vocabulary due for the date")
	// ErrNoActiveSession is returned when ending a quiz that is not running
	ErrNoActiveSession = errors.New("no active quiz")

	ErrNotRegistered    = errors.New("user is not registered")
	ErrInvalidTime      = errors.New("invalid time of day")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDirection = errors.New("invalid question direction")
	ErrInvalidRange     = errors.New("invalid id range")
	ErrEmptyVocab       = errors.New("term and meaning cannot be empty")
)
