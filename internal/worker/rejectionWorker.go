package worker

import (
	"fmt"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/damiolat/onboardly/internal/kyc"
	"github.com/damiolat/onboardly/internal/stream"
)

// RejectedEventWorker starts the configured number of consumers on the
// rejected topic and mails affected customers that their verification failed.
func (wk *Worker) RejectedEventWorker() {
	for i := 0; i < wk.Concurrency; i++ {
		consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
			GroupId: rejectionGroupID,
			Topic:   wk.RejectedTopic,
		})
		if err != nil {
			log.Fatalf("Error creating rejection consumer: %v", err)
		}

		go wk.consumeRejected(consumer)
	}
}

func (wk *Worker) consumeRejected(consumer *kafka.Consumer) {
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("Rejection worker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				log.Printf("Rejected event received on %s: %s", e.TopicPartition, string(e.Value))

				wk.processWithRetry(func() error {
					return wk.handleRejectedMessage(string(e.Value))
				})

				if _, err := consumer.CommitMessage(e); err != nil {
					log.Printf("Error committing offset: %v", err)
				}
			case kafka.Error:
				log.Printf("Consumer error: %v", e)
			}
		}
	}
}

func (wk *Worker) handleRejectedMessage(message string) error {
	payload := ParsePayload(message)
	if payload.Kind == PayloadMalformed {
		log.Printf("Dropping malformed rejected event payload: %q", message)
		return nil
	}

	return wk.sendRejectionEmail(payload.CustomerID)
}

// sendRejectionEmail notifies the customer that verification failed. Unlike
// provisioning, a missing customer is a hard failure here: there is nobody to
// notify.
func (wk *Worker) sendRejectionEmail(customerID int64) error {
	customer, found, err := wk.CustomerRepo.GetOne(customerID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: id %d", kyc.ErrCustomerNotFound, customerID)
	}

	emailData := wk.Helper.NewEmailData()
	emailData["Name"] = customer.FullName

	if err := wk.Mailer.Send(customer.Email, emailData, "kyc-rejected.tmpl"); err != nil {
		log.Printf("Error sending rejection email to customer %d: %v", customerID, err)
		return err
	}

	log.Printf("Sent KYC rejection email to customer %d", customerID)
	return nil
}
