package mrkl

// LimitType specifies how to match keys for limit checking.
type LimitType string

const (
	// LimitExactKey matches an exact key.
	LimitExactKey LimitType = "exact"

	// LimitKeyPrefix matches any key with the given prefix.
	// Use for limits across all tools (e.g., KeyToolCallsFor).
	LimitKeyPrefix LimitType = "prefix"
)

// Limit defines a stats threshold that fails the run with ErrLimitExceeded.
//
// The step limit of the executor is separate and always enforced; limits are
// extra guards on top of it:
//
//	// Fail if any single tool is called more than 5 times
//	{Type: LimitKeyPrefix, Key: KeyToolCallsFor, MaxValue: 5}
//
//	// Fail after 100k input tokens
//	{Type: LimitExactKey, Key: KeyInputTokens, MaxValue: 100000}
type Limit struct {
	Type LimitType
	Key  string

	// MaxValue is the threshold. The run fails when value > MaxValue.
	MaxValue float64
}

// DefaultLimits returns opt-in guards against a model stuck on failing tools:
// at most 3 consecutive tool errors (unknown tool or tool failure).
func DefaultLimits() []Limit {
	return []Limit{
		{Type: LimitExactKey, Key: KeyToolCallsErrorConsecutive, MaxValue: 3},
	}
}
