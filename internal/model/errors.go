package model

import "errors"

// Sentinel errors returned by the persistence layer.
var (
	ErrRoadmapNotFound = errors.New("roadmap not found")
	ErrUserNotFound    = errors.New("user not found")
)
