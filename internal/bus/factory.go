package bus

import (
	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

// New creates the configured event bus.
func New(cfg config.BusConfig, log *logger.Logger) (Bus, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryBus(log), nil
	case "kafka":
		return NewKafkaBus(KafkaConfig{
			Brokers:       ParseKafkaBrokers(cfg.KafkaBrokers),
			ConsumerGroup: cfg.ConsumerGroup,
		}, log)
	default:
		return nil, errors.ValidationError("unknown bus type: " + cfg.Type)
	}
}
