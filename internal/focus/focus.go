// Package focus arbitrates which player may produce sound.
package focus

import (
	"sync"

	"github.com/google/uuid"
)

// Usage describes why a client wants to play audio.
type Usage int

const (
	UsageMedia Usage = iota
	UsageGame
	UsageNotification
	UsageAlarm
	UsageVoiceCommunication
)

// ContentType describes what is being played.
type ContentType int

const (
	ContentMusic ContentType = iota
	ContentSpeech
	ContentSonification
)

// Change is delivered to a client when its focus changes.
type Change int

const (
	Gained Change = iota
	LostTransient
	LostTransientCanDuck
	LostPermanent
)

func (c Change) String() string {
	switch c {
	case Gained:
		return "gained"
	case LostTransient:
		return "lost-transient"
	case LostTransientCanDuck:
		return "lost-transient-can-duck"
	default:
		return "lost-permanent"
	}
}

// State is a client's view of its own focus.
type State int

const (
	NotRequested State = iota
	Granted
	Suspended
)

func (s State) String() string {
	switch s {
	case Granted:
		return "granted"
	case Suspended:
		return "suspended"
	default:
		return "not-requested"
	}
}

// ChangeMsg carries a focus change onto the update loop.
type ChangeMsg struct {
	Change Change
}

// Requester is the part of a focus client a player needs.
type Requester interface {
	ID() string
	Request(usage Usage, content ContentType) bool
	Abandon()
}

// lossFor returns what the current holder loses when usage is requested.
func lossFor(u Usage) Change {
	switch u {
	case UsageNotification:
		return LostTransientCanDuck
	case UsageAlarm, UsageVoiceCommunication:
		return LostTransient
	default:
		return LostPermanent
	}
}

type holder struct {
	client    *Client
	usage     Usage
	suspended bool
}

// Broker grants focus to one client at a time. Transient requests stack on
// top of the current holder, which gets focus back when they abandon.
// Notifications run outside the broker lock.
type Broker struct {
	mu          sync.Mutex
	stack       []holder
	interrupted *Client
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{}
}

// Client registers a new focus client. notify receives every change for it
// and must not block.
func (b *Broker) Client(notify func(Change)) *Client {
	return &Client{id: uuid.New().String(), broker: b, notify: notify}
}

// Holder returns the id of the client currently holding focus, or "".
func (b *Broker) Holder() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.stack) == 0 || b.interrupted != nil {
		return ""
	}
	return b.stack[len(b.stack)-1].client.id
}

func (b *Broker) request(c *Client, usage Usage) bool {
	var notify []func()

	b.mu.Lock()
	if n := len(b.stack); n > 0 {
		top := b.stack[n-1]
		if top.client == c {
			b.stack[n-1].usage = usage
			b.mu.Unlock()
			return true
		}
		if top.usage == UsageVoiceCommunication {
			b.mu.Unlock()
			return false
		}
		loss := lossFor(usage)
		if loss == LostPermanent {
			b.stack = b.stack[:n-1]
		} else {
			b.stack[n-1].suspended = true
		}
		notify = append(notify, func() { top.client.deliver(loss) })
	}
	b.remove(c)
	b.stack = append(b.stack, holder{client: c, usage: usage})
	b.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return true
}

func (b *Broker) abandon(c *Client) {
	var regain *Client

	b.mu.Lock()
	wasTop := len(b.stack) > 0 && b.stack[len(b.stack)-1].client == c
	b.remove(c)
	if b.interrupted == c {
		b.interrupted = nil
	}
	if wasTop && len(b.stack) > 0 && b.stack[len(b.stack)-1].suspended {
		b.stack[len(b.stack)-1].suspended = false
		regain = b.stack[len(b.stack)-1].client
	}
	b.mu.Unlock()

	if regain != nil {
		regain.deliver(Gained)
	}
}

// Interrupt takes focus away from the current holder transiently, as when the
// whole process is suspended.
func (b *Broker) Interrupt() {
	b.mu.Lock()
	if len(b.stack) == 0 || b.interrupted != nil {
		b.mu.Unlock()
		return
	}
	top := b.stack[len(b.stack)-1].client
	b.interrupted = top
	b.mu.Unlock()

	top.deliver(LostTransient)
}

// Restore ends an Interrupt and gives focus back.
func (b *Broker) Restore() {
	b.mu.Lock()
	c := b.interrupted
	b.interrupted = nil
	b.mu.Unlock()

	if c != nil {
		c.deliver(Gained)
	}
}

func (b *Broker) remove(c *Client) {
	out := b.stack[:0]
	for _, h := range b.stack {
		if h.client != c {
			out = append(out, h)
		}
	}
	b.stack = out
}

// Client is one participant in a Broker.
type Client struct {
	id     string
	broker *Broker
	notify func(Change)
}

// ID returns the client's unique id.
func (c *Client) ID() string { return c.id }

// Request asks for focus and reports whether it was granted.
func (c *Client) Request(usage Usage, content ContentType) bool {
	return c.broker.request(c, usage)
}

// Abandon gives focus up. It is safe to call without holding focus.
func (c *Client) Abandon() {
	c.broker.abandon(c)
}

func (c *Client) deliver(ch Change) {
	if c.notify != nil {
		c.notify(ch)
	}
}
