package notifier

import "context"

// Recipient identifies where a notification can be delivered. Channels pick
// the address they understand and skip recipients missing it.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Notifier delivers account notifications. Implementations are
// fire-and-forget collaborators: callers log failures, never fail the
// request on them.
type Notifier interface {
	SendResetLink(ctx context.Context, to Recipient, resetLink string) error
}

// Nop is a Notifier that does nothing. Used when no delivery channel is
// configured and in tests.
type Nop struct{}

func (Nop) SendResetLink(ctx context.Context, to Recipient, resetLink string) error {
	return nil
}

// Multi fans a notification out to every configured channel. The first
// channel error is returned after all channels have been tried.
type Multi []Notifier

func (m Multi) SendResetLink(ctx context.Context, to Recipient, resetLink string) error {
	var firstErr error
	for _, n := range m {
		if err := n.SendResetLink(ctx, to, resetLink); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
