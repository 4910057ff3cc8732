package core

import "time"

// WaitTime in seconds for store responses
const WaitTime = 5

type KitchenParams struct {
	Port         int
	PollInterval time.Duration
}
