package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/andrew/clickup-rag/pkg/models"
)

// RetryPolicy bounds the reply-fetch retry loop.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// Backoff is the fixed wait between attempts.
	Backoff time.Duration
}

// DefaultRetryPolicy matches the reply endpoint's observed flakiness:
// three attempts with a two second wait.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}
}

// ReplyFetcher augments comments with their reply threads. A failed
// fetch never aborts the parent comment or task: after the policy's
// attempts are exhausted the comment simply keeps an empty reply list.
type ReplyFetcher struct {
	Source Source
	Policy RetryPolicy
	Log    *slog.Logger

	// sleep is swappable for tests.
	sleep func(time.Duration)
}

// NewReplyFetcher creates a fetcher with the given policy.
func NewReplyFetcher(source Source, policy RetryPolicy, log *slog.Logger) *ReplyFetcher {
	if log == nil {
		log = slog.Default()
	}
	return &ReplyFetcher{
		Source: source,
		Policy: policy,
		Log:    log,
		sleep:  time.Sleep,
	}
}

// AttachReplies fetches each comment's reply thread and attaches the
// non-empty replies in place, then returns the same slice.
func (f *ReplyFetcher) AttachReplies(ctx context.Context, comments []models.Comment) []models.Comment {
	for i := range comments {
		if comments[i].ID == "" {
			comments[i].Replies = nil
			continue
		}

		replies, err := f.fetchWithRetry(ctx, comments[i].ID)
		if err != nil {
			f.Log.Warn("reply fetch failed, continuing without replies",
				"comment_id", comments[i].ID, "error", err)
			comments[i].Replies = nil
			continue
		}
		comments[i].Replies = dropEmptyReplies(replies)
	}
	return comments
}

func (f *ReplyFetcher) fetchWithRetry(ctx context.Context, commentID string) ([]models.Reply, error) {
	attempts := f.Policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		replies, err := f.Source.Replies(ctx, commentID)
		if err == nil {
			return replies, nil
		}
		lastErr = err
		if attempt < attempts {
			f.sleep(f.Policy.Backoff)
		}
	}
	return nil, lastErr
}

func dropEmptyReplies(replies []models.Reply) []models.Reply {
	var kept []models.Reply
	for _, r := range replies {
		if strings.TrimSpace(r.Text) != "" {
			kept = append(kept, r)
		}
	}
	return kept
}
