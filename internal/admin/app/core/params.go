package core

// WaitTime in seconds
const WaitTime = 5

type AdminParams struct {
	Port int
}
