package core

import "github.com/google/uuid"

// IDFunc produces a fresh identifier carrying the given prefix.
type IDFunc func(prefix string) string

// NewID is the production IDFunc.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

const (
	PrefixManual   = "man"
	PrefixRollover = "auto"
	PrefixBudget   = "budget"
	PrefixAccount  = "acc"
	PrefixGoal     = "goal"
	PrefixCategory = "cat"
)
