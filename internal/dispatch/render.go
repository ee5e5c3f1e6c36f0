package dispatch

import (
	"strings"

	"github.com/PFigs/sms-pusher/internal/common"
	"github.com/PFigs/sms-pusher/internal/contacts"
)

// Outbound is the rendered message shared by every contact in a batch.
// TITLE is accepted in configuration but deliberately not part of the
// payload; only the sender and body go over the wire.
type Outbound struct {
	Sender string
	Body   string
}

const nameToken = "{name}"

// Render derives the outbound message from configuration. Pure.
func Render(cfg *common.Config) Outbound {
	return Outbound{Sender: cfg.Sender, Body: cfg.Body}
}

// For produces the body for one contact. The only personalization is the
// explicit {name} token, replaced with the contact's name or dropped when
// the contact has none.
func (o Outbound) For(c contacts.Contact) string {
	if !strings.Contains(o.Body, nameToken) {
		return o.Body
	}
	return strings.ReplaceAll(o.Body, nameToken, c.Name)
}
