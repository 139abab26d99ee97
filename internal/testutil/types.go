package testutil

import "time"

// InvocationRecord holds the details of a single recorded handler call.
type InvocationRecord struct {
	Handler string
	Payload any
	At      time.Time
}
