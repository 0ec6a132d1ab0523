package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"seating-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers telling waitlist guests their
// table is ready.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case entryID := <-wp.jobs:
			log.Printf("Worker %d processing waitlist entry %d", id, entryID)
			wp.sendNotificationsForEntry(ctx, entryID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool. It satisfies the allocation
// engine's Notifier interface.
func (wp *WorkerPool) Dispatch(entryID int64) {
	wp.jobs <- entryID
}

// sendNotificationsForEntry fetches subscriptions and sends notifications
// for a waitlist entry whose seats were just assigned.
func (wp *WorkerPool) sendNotificationsForEntry(ctx context.Context, entryID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_waitlist_mapping swm ON swm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("swm.waitlist_entry_id = ?", entryID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for waitlist entry %d: %v", entryID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for waitlist entry %d", len(subscriptions), entryID)

	var entry model.WaitlistEntry
	guestLabel := fmt.Sprintf("party %d", entryID)
	if err := wp.db.WithContext(ctx).
		Select("guest_name").
		First(&entry, entryID).Error; err != nil {
		log.Printf("Error fetching waitlist entry %d: %v", entryID, err)
	} else if entry.GuestName != "" {
		guestLabel = entry.GuestName
	}

	message := fmt.Sprintf("%s, your table is ready!", guestLabel)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
