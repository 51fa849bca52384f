package app

import "github.com/avezina/parley/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropEvent
	CloseConn
)

// Policy decides what happens to a recipient whose send buffer was full
// during fan-out.
type Policy interface {
	OnBackpressure(handle core.HandleID) BackpressureAction
}

// SimplePolicy closes slow connections; the close funnels into that
// session's normal teardown, so presence and membership stay consistent.
type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(handle core.HandleID) BackpressureAction {
	return CloseConn
}
