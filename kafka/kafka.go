package kafka

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/garoto002/siku-backend/logger"
	"go.uber.org/zap"
)

// Producer publishes alert events. Kafka is optional infrastructure: when
// no bootstrap servers are configured the producer is nil and publishing
// is skipped upstream.
type Producer struct {
	producer *kafka.Producer
}

type Config struct {
	BootstrapServers string
	APIKey           string
	APISecret        string
}

func NewProducer(cfg Config) (*Producer, error) {
	config := &kafka.ConfigMap{
		"bootstrap.servers": cfg.BootstrapServers,
	}
	if cfg.APIKey != "" {
		_ = config.SetKey("sasl.username", cfg.APIKey)
		_ = config.SetKey("sasl.password", cfg.APISecret)
		_ = config.SetKey("security.protocol", "SASL_SSL")
		_ = config.SetKey("sasl.mechanism", "PLAIN")
	}

	producer, err := kafka.NewProducer(config)
	if err != nil {
		logger.Get().Error("failed to initialize Kafka producer",
			zap.String("bootstrap_servers", cfg.BootstrapServers),
			zap.Error(err))
		return nil, err
	}

	logger.Get().Info("Kafka producer initialized successfully",
		zap.String("bootstrap_servers", cfg.BootstrapServers))
	return &Producer{producer: producer}, nil
}

func (p *Producer) Publish(topic string, payload []byte) error {
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}

	err := p.producer.Produce(msg, nil)
	if err != nil {
		logger.Get().Error("failed to produce message",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	logger.Get().Debug("message produced successfully",
		zap.String("topic", topic))
	return nil
}

func (p *Producer) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
