package engine

const (
	// DefaultDailyDigLimit matches the limit the board has always enforced.
	DefaultDailyDigLimit = 12

	defaultTopMiners = 10
	maxTopMiners     = 100
)
