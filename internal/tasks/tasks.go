package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/config"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/email"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/services"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/storage"
)

// Task types handled by the background worker.
const (
	TypeEmailDeliver = "email:deliver"
	TypeImageProcess = "image:process"
	TypeSlugBackfill = "property:slug:backfill"
)

// Queue names. Image processing gets its own queue so large photos never
// delay notification emails.
const (
	QueueDefault = "default"
	QueueImages  = "images"
)

// Enqueuer is the subset of asynq.Client the API handlers need, kept as
// an interface for testing.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewClient builds an asynq client from an existing Redis connection.
func NewClient(rdb *redis.Client) *asynq.Client {
	opts := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// --- Payloads ---

// EmailDeliverPayload is the payload of an email:deliver task.
type EmailDeliverPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// ImageProcessPayload is the payload of an image:process task.
type ImageProcessPayload struct {
	PropertyID string `json:"property_id"`
	ObjectKey  string `json:"object_key"`
	Main       bool   `json:"main"` // true for the main photo, false for additionals
}

// NewEmailDeliverTask builds an email:deliver task.
func NewEmailDeliverTask(to []string, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailDeliverPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDeliver, payload, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// NewImageProcessTask builds an image:process task for an uploaded photo.
func NewImageProcessTask(propertyID, objectKey string, main bool) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageProcessPayload{PropertyID: propertyID, ObjectKey: objectKey, Main: main})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image payload: %w", err)
	}
	return asynq.NewTask(TypeImageProcess, payload, asynq.Queue(QueueImages), asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)), nil
}

// NewSlugBackfillTask builds a property:slug:backfill task.
func NewSlugBackfillTask() *asynq.Task {
	return asynq.NewTask(TypeSlugBackfill, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(2))
}

// --- Processor ---

// TaskProcessor handles the processing of tasks. It holds the
// dependencies the task handlers need.
type TaskProcessor struct {
	cfg             *config.Config
	emailSender     email.Sender
	photoStorage    storage.IPhotoStorage
	propertyService services.IPropertyService
}

// NewTaskProcessor creates a new TaskProcessor.
func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	photoStorage storage.IPhotoStorage,
	propertyService services.IPropertyService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:             cfg,
		emailSender:     emailSender,
		photoStorage:    photoStorage,
		propertyService: propertyService,
	}
}

// SetupServer builds the asynq server consuming the given queues.
func SetupServer(rdb *redis.Client, images bool, background bool) *asynq.Server {
	queues := map[string]int{}
	if background {
		queues[QueueDefault] = 5
	}
	if images {
		queues[QueueImages] = 2
	}
	if len(queues) == 0 {
		return nil
	}

	opts := rdb.Options()
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB},
		asynq.Config{
			Concurrency: 5,
			Queues:      queues,
		},
	)
}

// NewMux registers the processor's handlers.
func (p *TaskProcessor) NewMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDeliver, p.HandleEmailDeliverTask)
	mux.HandleFunc(TypeImageProcess, p.HandleImageProcessTask)
	mux.HandleFunc(TypeSlugBackfill, p.HandleSlugBackfillTask)
	return mux
}

// HandleEmailDeliverTask delivers a queued email through the configured
// sender.
func (p *TaskProcessor) HandleEmailDeliverTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}

	msg := email.ComposeMessage(p.cfg.SmtpFromAddress, payload.To, payload.Subject, payload.Body)
	if err := p.emailSender.Send(ctx, payload.To, payload.Subject, msg); err != nil {
		return fmt.Errorf("failed to deliver email %q: %w", payload.Subject, err)
	}
	return nil
}

// HandleImageProcessTask downloads an uploaded photo, bounds it to the
// configured max dimension, re-encodes it as JPEG, uploads the processed
// copy and swaps the property's photo URL.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image payload: %v: %w", err, asynq.SkipRetry)
	}

	propertyID, err := primitive.ObjectIDFromHex(payload.PropertyID)
	if err != nil {
		return fmt.Errorf("malformed property id %q: %v: %w", payload.PropertyID, err, asynq.SkipRetry)
	}

	data, err := p.photoStorage.Download(ctx, payload.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to fetch photo %s: %w", payload.ObjectKey, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Not an image we can process; leave the original URL in place.
		log.Printf("Photo %s is not a decodable image (%v), leaving as-is", payload.ObjectKey, err)
		return nil
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	bounds := img.Bounds()
	if uint(bounds.Dx()) > maxDim || uint(bounds.Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	} else if format == "jpeg" {
		// Already small enough and already JPEG, nothing to do.
		return nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode processed photo %s: %w", payload.ObjectKey, err)
	}

	processedKey := payload.ObjectKey + ".processed.jpg"
	_, url, err := p.photoStorage.Upload(ctx, payload.PropertyID, processedKey, "image/jpeg", &buf)
	if err != nil {
		return fmt.Errorf("failed to upload processed photo %s: %w", processedKey, err)
	}

	if payload.Main {
		if err := p.propertyService.SetPhotoURLs(ctx, propertyID, url, nil); err != nil {
			return fmt.Errorf("failed to swap main photo for property %s: %w", payload.PropertyID, err)
		}
	}
	// Additional photos keep their original URLs; the processed copy is
	// picked up by the CDN path rewrite.
	return nil
}

// HandleSlugBackfillTask runs the slug migration for approved properties
// missing one.
func (p *TaskProcessor) HandleSlugBackfillTask(ctx context.Context, t *asynq.Task) error {
	n, err := p.propertyService.BackfillSlugs(ctx)
	if err != nil {
		return fmt.Errorf("slug backfill failed: %w", err)
	}
	if n > 0 {
		log.Printf("Slug backfill updated %d properties", n)
	}
	return nil
}
