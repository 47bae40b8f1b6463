package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"buho/internal/domain/banklink"
	"buho/internal/domain/notification"
	"buho/internal/infrastructure/bankfeed"
)

// Notifier sends the re-link push when a connection stops working.
type Notifier interface {
	SendRelinkRequired(ctx context.Context, userID int64, institutionName string) error
}

// LinkHealthJob probes every active link of one user against the aggregator.
// A link whose credential has been revoked is marked revoked and the user is
// told to re-link. Transient provider failures are left alone for the next
// run to retry.
type LinkHealthJob struct {
	userID   int64
	repo     banklink.Repository
	feed     bankfeed.ClientInterface
	notifier Notifier
}

func NewLinkHealthJob(userID int64, repo banklink.Repository, feed bankfeed.ClientInterface, notifier Notifier) *LinkHealthJob {
	return &LinkHealthJob{
		userID:   userID,
		repo:     repo,
		feed:     feed,
		notifier: notifier,
	}
}

// Execute checks each active link sequentially. Links within one user are
// few, so there is no fan-out here; concurrency comes from the worker pool
// running many users at once.
func (j *LinkHealthJob) Execute(ctx context.Context) error {
	links, err := j.repo.ListActiveByUserID(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	var revoked, transient int
	for _, link := range links {
		_, err := j.feed.GetAccounts(ctx, link.AccessToken)
		if err == nil {
			continue
		}

		if errors.Is(err, bankfeed.ErrInvalidToken) {
			log.Printf("Link health: credential revoked, link=%s institution=%s", link.ID, link.InstitutionName)
			if markErr := j.repo.MarkRevoked(ctx, link.ID); markErr != nil {
				log.Printf("Link health: failed to mark link %s revoked: %v", link.ID, markErr)
				continue
			}
			revoked++

			if j.notifier != nil {
				if notifyErr := j.notifier.SendRelinkRequired(ctx, j.userID, link.InstitutionName); notifyErr != nil {
					log.Printf("Link health: failed to notify user %d: %v", j.userID, notifyErr)
				}
			}
			continue
		}

		transient++
		log.Printf("Link health: transient failure, link=%s institution=%s err=%v", link.ID, link.InstitutionName, err)
	}

	if transient > 0 {
		// Mark the run for retry without touching the healthy links
		return fmt.Errorf("health check completed with %d transient failures", transient)
	}

	if revoked > 0 {
		log.Printf("Link health for user %d: %d link(s) revoked", j.userID, revoked)
	}

	return nil
}

// UserID returns the user ID associated with this job
func (j *LinkHealthJob) UserID() string {
	return strconv.FormatInt(j.userID, 10)
}

// Description returns a human-readable description of the job
func (j *LinkHealthJob) Description() string {
	return fmt.Sprintf("Link health check for user %d", j.userID)
}

var _ Notifier = (*notification.Service)(nil)

// NewHealthJobProvider returns a job provider that builds one health check
// job per user holding at least one active link.
func NewHealthJobProvider(repo banklink.Repository, feed bankfeed.ClientInterface, notifier Notifier) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		userIDs, err := repo.ListUserIDsWithActiveLinks(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users with active links: %w", err)
		}

		jobs := make([]Job, 0, len(userIDs))
		for _, id := range userIDs {
			jobs = append(jobs, NewLinkHealthJob(id, repo, feed, notifier))
		}
		return jobs, nil
	}
}
