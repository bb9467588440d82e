// Package peer models a Telegram peer as a small tagged union that can be
// normalized to the stable "marked" chat identifier and parsed back from it.
//
// Marked identifiers follow the TDLib chat id convention: users are positive,
// basic groups are the negated group id and channels/supergroups are
// -(1000000000000 + channel id).
package peer

import (
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindUser
	KindBasicGroup
	KindChannel
)

const channelShift int64 = 1000000000000

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindBasicGroup:
		return "group"
	case KindChannel:
		return "channel"
	}

	return "unknown"
}

type Peer struct {
	Kind Kind
	ID   int64
}

func User(id int64) Peer {
	return Peer{Kind: KindUser, ID: id}
}

func BasicGroup(id int64) Peer {
	return Peer{Kind: KindBasicGroup, ID: id}
}

func Channel(id int64) Peer {
	return Peer{Kind: KindChannel, ID: id}
}

// FromMarked parses a marked chat id. Zero yields the zero Peer.
func FromMarked(id int64) Peer {
	switch {
	case id > 0:
		return User(id)
	case id == 0:
		return Peer{}
	case id <= -channelShift:
		return Channel(-id - channelShift)
	default:
		return BasicGroup(-id)
	}
}

// Marked returns the stable integer identifier of the peer.
func (p Peer) Marked() int64 {
	switch p.Kind {
	case KindUser:
		return p.ID
	case KindBasicGroup:
		return -p.ID
	case KindChannel:
		return -(channelShift + p.ID)
	}

	return 0
}

func (p Peer) IsZero() bool {
	return p.Kind == KindUnknown || p.ID == 0
}

func (p Peer) String() string {
	return fmt.Sprintf("%s:%d", p.Kind, p.ID)
}

// MarkedIDs normalizes a list of peers, skipping zero values.
func MarkedIDs(peers []Peer) []int64 {
	ids := make([]int64, 0, len(peers))
	for _, p := range peers {
		if p.IsZero() {
			continue
		}
		ids = append(ids, p.Marked())
	}

	return ids
}
