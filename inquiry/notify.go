package inquiry

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier records dispatched responses in the application log. The
// notification surface carries no logic of its own: the response text
// itself reaches the buyer through the inquiry read models.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) ResponseDispatched(ctx context.Context, rec Record) {
	n.log.Info().
		Str("inquiry_id", rec.ID).
		Str("buyer_id", rec.BuyerID).
		Str("property_id", rec.PropertyID).
		Str("contact_preference", string(rec.ContactPreference)).
		Msg("inquiry response dispatched to buyer")
}
