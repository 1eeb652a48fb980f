package clipboard

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Badge messages
const (
	Copied     = "M.E.D copiée"
	CopyFailed = "Échec de la copie"
	CopyDenied = "Copie impossible"
	Default    = "Copié"
)

// Badge is a transient status line
type Badge struct {
	Visible time.Duration
	Fade    time.Duration
}

// DefaultBadge stays 1.4s then fades out over 350ms
var DefaultBadge = Badge{Visible: 1400 * time.Millisecond, Fade: 350 * time.Millisecond}

// Show writes msg, waits for the badge to expire then clears the line. It
// returns early when ctx is done.
func (b Badge) Show(ctx context.Context, w io.Writer, msg string) error {
	if msg == "" {
		msg = Default
	}
	if _, err := fmt.Fprint(w, "\r"+msg); err != nil {
		return err
	}

	timer := time.NewTimer(b.Visible + b.Fade)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	_, err := fmt.Fprint(w, "\r\033[K")
	return err
}

// Message picks the badge text for a copy outcome. denied is used when
// copying was not attempted at all.
func Message(ok, attempted bool) string {
	switch {
	case !attempted:
		return CopyDenied
	case ok:
		return Copied
	default:
		return CopyFailed
	}
}
