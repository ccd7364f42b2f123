// Package signal routes lifecycle events to the modules subscribed to them.
//
// Every channel has a handler interface. A module subscribes to a channel by
// implementing that interface; Detect turns the set of implemented
// interfaces into a Set that the Bus reads when it rebuilds its lists.
package signal

import (
	"math/bits"
	"strconv"
	"strings"
)

// Event identifies one lifecycle channel.
type Event uint8

const (
	BeforeUpdate Event = iota
	OnUpdate
	BeforeRepro
	OnOffspringReady
	OnInjectReady
	BeforePlacement
	OnPlacement
	BeforeMutate
	OnMutate
	BeforeDeath
	BeforeSwap
	OnSwap
	BeforePopResize
	OnPopResize
	OnError
	OnWarning
	BeforeExit
	OnHelp

	NumEvents
)

var eventNames = [NumEvents]string{
	"BeforeUpdate", "OnUpdate", "BeforeRepro", "OnOffspringReady", "OnInjectReady",
	"BeforePlacement", "OnPlacement", "BeforeMutate", "OnMutate", "BeforeDeath",
	"BeforeSwap", "OnSwap", "BeforePopResize", "OnPopResize", "OnError", "OnWarning",
	"BeforeExit", "OnHelp",
}

func (e Event) String() string {
	if e < NumEvents {
		return eventNames[e]
	}
	return "Event(" + strconv.Itoa(int(e)) + ")"
}

// ParseEvent looks up a channel by name.
func ParseEvent(name string) (Event, bool) {
	for i, n := range eventNames {
		if strings.EqualFold(n, name) {
			return Event(i), true
		}
	}
	return 0, false
}

// Set is a capability set: one bit per channel.
type Set uint32

// SetOf builds a Set from events.
func SetOf(events ...Event) Set {
	var s Set
	for _, e := range events {
		s = s.With(e)
	}
	return s
}

func (s Set) Has(e Event) bool    { return s&(1<<e) != 0 }
func (s Set) With(e Event) Set    { return s | 1<<e }
func (s Set) Without(e Event) Set { return s &^ (1 << e) }
func (s Set) Len() int            { return bits.OnesCount32(uint32(s)) }

// Events lists the members in channel order.
func (s Set) Events() []Event {
	var out []Event
	for e := Event(0); e < NumEvents; e++ {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s Set) String() string {
	names := make([]string, 0, s.Len())
	for _, e := range s.Events() {
		names = append(names, e.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
