package solar

import (
	"log/slog"

	"github.com/raterudder/rooftopsolar/pkg/log"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}
