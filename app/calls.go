// Package app dispatches voice-call requests to the call-provider worker.
package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"example/companion-api/app/models"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// dispatchCallJob enqueues a call job for the external voice worker. Call
// delivery is best-effort: the chat reply still goes out if the enqueue
// fails, so errors are logged rather than surfaced.
func dispatchCallJob(ctx context.Context, queueURL string, companion models.Companion) {
	if queueURL == "" {
		log.Printf("CALL_QUEUE_URL missing; skipping call dispatch companion=%s", companion.ID)
		return
	}

	job := models.CallJob{
		CompanionID:   companion.ID,
		UserID:        companion.UserID,
		CompanionName: companion.Name,
		RequestedAt:   time.Now().Unix(),
	}
	body, err := json.Marshal(job)
	if err != nil {
		log.Printf("failed to marshal call job companion=%s: %v", companion.ID, err)
		return
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("failed to load AWS config for call dispatch: %v", err)
		return
	}

	client := sqs.NewFromConfig(awsCfg)
	_, err = client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &queueURL,
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		log.Printf("failed to enqueue call job companion=%s: %v", companion.ID, err)
		return
	}
	log.Printf("call job enqueued companion=%s user=%s", companion.ID, companion.UserID)
}
