package roster

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	"github.com/KirkDiggler/roster-api/internal/pkg/clock"
	"github.com/KirkDiggler/roster-api/internal/pkg/idgen"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
	"github.com/KirkDiggler/roster-api/internal/pkg/metrics"
)

// Options are the dependencies shared by every store driver. Zero values
// fall back to the real clock, UUID ids, the default capacity and a no-op
// logger.
type Options struct {
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Capacity    int
	Logger      *zap.Logger
	Metrics     *metrics.Recorder
}

func (o Options) withDefaults() (Options, error) {
	if o.Capacity < 0 {
		return o, errors.InvalidArgument("capacity cannot be negative")
	}
	if o.Capacity == 0 {
		o.Capacity = pokemon.RosterCapacity
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.IDGenerator == nil {
		o.IDGenerator = idgen.NewUUID("")
	}
	o.Logger = logging.OrNop(o.Logger)
	return o, nil
}
