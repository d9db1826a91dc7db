package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Fangsangik/shopping/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes low-stock alerts to a kafka topic. Publish
// failures are logged, never returned: the ledger's unit of work must not
// roll back because the broker is down.
type KafkaNotifier struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "stock-alerts",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w, timeout: 5 * time.Second}
}

type lowStockEvent struct {
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
	Stock    int    `json:"stock"`
	Status   string `json:"status"`
}

func (n *KafkaNotifier) NotifyLowStock(ctx context.Context, item *domain.Item) {
	payload, err := json.Marshal(lowStockEvent{
		ItemID:   item.ID,
		ItemName: item.Name,
		Stock:    item.Stock,
		Status:   string(item.Status),
	})
	if err != nil {
		log.Printf("failed to marshal low stock event for item %v: %v", item.ID, err)
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(fmt.Sprint(item.ID)), // item id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("stock.low")},
		},
	}
	if err := n.writer.WriteMessages(publishCtx, msg); err != nil {
		log.Printf("failed to publish low stock event for item %v: %v", item.ID, err)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
