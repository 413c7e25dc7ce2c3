package whatsapprepo

import "context"

type Repo interface {
	// Send delivers one message to a phone number in international format.
	Send(ctx context.Context, to, message string) error
}
