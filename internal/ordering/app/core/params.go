package core

// WaitTime in seconds
const WaitTime = 5

type OrderingParams struct {
	Port          int
	DefaultTable  int
	DefaultGuests int
}
