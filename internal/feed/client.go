package feed

import (
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/models"
)

// Client is the interface for anything that receives complaint events
// (a browser WebSocket, the Telegram admin notifier). The hub treats all
// clients uniformly.
type Client interface {
	// GetUserID returns the principal ID the client was opened for.
	GetUserID() string
	// GetRole decides which events the client may see.
	GetRole() models.Role

	// GetSendChannel returns the channel the hub delivers events on.
	GetSendChannel() chan<- models.Event

	// Run starts the client's pumps.
	Run()
	// Close shuts the client down. The hub calls it exactly once.
	Close()
}

// Durable is implemented by clients that must stay registered when they fall
// behind. The hub skips events for a full durable client instead of dropping it.
type Durable interface {
	Durable() bool
}

func isDurable(c Client) bool {
	d, ok := c.(Durable)
	return ok && d.Durable()
}

var gate = access.NewGate()

// Visible reports whether a client with the given identity may see the event.
// It is the same decision as viewing the complaint: admins see everything,
// students only see events about their own complaints.
func Visible(userID string, role models.Role, e models.Event) bool {
	p := &models.Principal{ID: userID, Role: role}
	return gate.Can(p, access.ViewComplaint, &access.Resource{AuthorID: e.AuthorID})
}
