package models

import "github.com/pkg/errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrCrossRecruitment = errors.New("stage belongs to another recruitment")
	ErrNotInScope       = errors.New("entity is not part of the ordered scope")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoChange         = errors.New("candidate is already in the stage")
)
