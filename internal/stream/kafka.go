package stream

import (
	"log"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// deliveryWait bounds how long we track an in-flight send. After this the
// outcome is abandoned without retrying; the broker may still deliver.
const deliveryWait = 10 * time.Second

type KafkaStream struct {
	kafkaServers string
	producer     *kafka.Producer
}

func New(kafkaServers string) (*KafkaStream, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": kafkaServers})
	if err != nil {
		return nil, err
	}

	return &KafkaStream{
		kafkaServers: kafkaServers,
		producer:     producer,
	}, nil
}

// ProduceMessage hands the message to the broker client and returns. Only an
// error from the client accepting the send is reported to the caller; the
// delivery outcome is awaited in the background for at most deliveryWait and
// logged either way.
func (st *KafkaStream) ProduceMessage(topic, message string) error {
	deliveryChan := make(chan kafka.Event, 1)
	start := time.Now()

	err := st.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          []byte(message),
	}, deliveryChan)

	if err != nil {
		log.Printf("Failed to produce message to %s: %v", topic, err)
		return err
	}

	go func() {
		select {
		case event := <-deliveryChan:
			m, ok := event.(*kafka.Message)
			if !ok {
				log.Printf("Unexpected delivery event on %s: %v", topic, event)
				return
			}
			if m.TopicPartition.Error != nil {
				log.Printf("Delivery failed on %s: %v", topic, m.TopicPartition.Error)
				return
			}
			log.Printf("Message delivered to %s [partition %d] at offset %v in %s",
				topic, m.TopicPartition.Partition, m.TopicPartition.Offset, time.Since(start))
		case <-time.After(deliveryWait):
			log.Printf("Gave up waiting for delivery report on %s after %s", topic, deliveryWait)
		}
	}()

	return nil
}

func (st *KafkaStream) Close() {
	st.producer.Close()
}

type StreamConsumer struct {
	GroupId string
	Topic   string
}

// CreateConsumer builds a consumer with auto-commit disabled. Workers commit
// offsets themselves once a message has been fully handled, so an
// acknowledgment always happens in a path that runs on success, handled
// failure, or exhausted retries.
func (st *KafkaStream) CreateConsumer(consumerStruct *StreamConsumer) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  st.kafkaServers,
		"group.id":           consumerStruct.GroupId,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(consumerStruct.Topic, nil); err != nil {
		return nil, err
	}

	return consumer, nil
}
