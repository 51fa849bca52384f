package app

import (
	"github.com/rs/zerolog/log"

	"github.com/avezina/parley/internal/core"
	"github.com/avezina/parley/internal/domain"
)

// Scope is the target set of handles an outbound event is delivered to.
type Scope interface{ isScope() }

type RoomScope struct{ Conversation domain.ConversationID }

type UserScope struct{ User domain.UserID }

type AllOnlineScope struct{}

func (RoomScope) isScope()      {}
func (UserScope) isScope()      {}
func (AllOnlineScope) isScope() {}

// NoSender marks a delivery with no originating handle to exclude.
const NoSender core.HandleID = ""

// DeliveryResult reports fan-out stats and backpressured recipients.
type DeliveryResult struct {
	Sent    int
	Dropped []core.HandleID
}

// Relay fans an event out to every live connection in scope. The member
// set is captured as a snapshot under the registry lock, then
// transmission proceeds lock-free so a slow recipient never stalls
// unrelated joins and leaves.
type Relay struct {
	presence *Presence
	rooms    *Rooms
	policy   Policy
}

func NewRelay(presence *Presence, rooms *Rooms, policy Policy) *Relay {
	return &Relay{presence: presence, rooms: rooms, policy: policy}
}

// Deliver makes exactly one transmission attempt per live handle in
// scope, excluding from. A dead or slow recipient is skipped, never
// aborting delivery to the rest.
func (r *Relay) Deliver(from core.HandleID, ev core.Event, scope Scope) DeliveryResult {
	frame, err := ev.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode event")
		return DeliveryResult{}
	}

	var targets []Recipient
	switch s := scope.(type) {
	case RoomScope:
		targets = r.rooms.MembersOf(s.Conversation)
	case UserScope:
		targets = r.presence.HandlesOf(s.User)
	case AllOnlineScope:
		targets = r.presence.Everyone()
	}

	res := DeliveryResult{}
	for _, t := range targets {
		if t.Handle == from {
			continue
		}
		if err := t.Conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, t.Handle)
			continue
		}
		res.Sent++
	}

	for _, slow := range res.Dropped {
		log.Warn().Str("module", "app.relay").Str("handle", string(slow)).Msg("recipient dropped frame")
		if r.policy == nil {
			continue
		}
		if r.policy.OnBackpressure(slow) == CloseConn {
			for _, t := range targets {
				if t.Handle == slow {
					t.Conn.Close()
				}
			}
		}
	}

	log.Debug().Str("module", "app.relay").Str("from", string(from)).Int("sent", res.Sent).Int("dropped", len(res.Dropped)).Msg("delivery result")
	return res
}
