package gmail

import (
	"context"
	"fmt"

	emaildomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	// recencyQuery bounds every listing to the recent window; older mail is
	// never ingested.
	recencyQuery = "newer_than:120d"

	// maxPageSize is the Gmail API listing maximum.
	maxPageSize = 500

	gmailUser = "me"
)

// Service is the Email Source Adapter over the Gmail API.
type Service struct {
	log *logrus.Logger
}

func NewService(log *logrus.Logger) *Service {
	return &Service{log: log}
}

// messageLister is the seam between pagination and the Gmail client, so the
// listing loop is testable without the live API.
type messageLister interface {
	ListPage(pageToken string, pageSize int64) (ids []string, nextToken string, err error)
	GetMessage(id string) (*gmail.Message, error)
}

type gmailLister struct {
	srv *gmail.Service
}

func (g *gmailLister) ListPage(pageToken string, pageSize int64) ([]string, string, error) {
	call := g.srv.Users.Messages.List(gmailUser).Q(recencyQuery).MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, resp.NextPageToken, nil
}

func (g *gmailLister) GetMessage(id string) (*gmail.Message, error) {
	return g.srv.Users.Messages.Get(gmailUser, id).Format("full").Do()
}

// FetchRecent lists messages in the recency window up to max, then fetches
// full detail for each. Per-item permission/not-found/rate-limit failures
// are logged and skipped; an authentication failure aborts the remainder.
func (s *Service) FetchRecent(ctx context.Context, accessToken string, max int64) ([]*emaildomain.EmailRecord, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return s.fetch(&gmailLister{srv: srv}, max)
}

func (s *Service) fetch(lister messageLister, max int64) ([]*emaildomain.EmailRecord, error) {
	ids, err := listRecentIDs(lister, max)
	if err != nil {
		return nil, emaildomain.Classify("unable to list messages", err)
	}

	records := make([]*emaildomain.EmailRecord, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		msg, err := lister.GetMessage(id)
		if err != nil {
			classified := emaildomain.Classify("unable to fetch message "+id, err)
			if classified.Kind == emaildomain.KindAuth {
				// Credential died mid-batch; the rest is unreachable.
				return nil, classified
			}
			skipped++
			s.log.WithFields(logrus.Fields{
				"message_id": id,
				"kind":       classified.Kind.String(),
			}).WithError(err).Warn("skipping message")
			continue
		}
		records = append(records, extractRecord(msg))
	}

	if skipped > 0 {
		s.log.WithFields(logrus.Fields{
			"fetched": len(records),
			"skipped": skipped,
		}).Info("fetched recent messages with skips")
	}
	return records, nil
}

// listRecentIDs pages through the listing endpoint until the page token
// runs out or max ids are accumulated. The last page request is shrunk so
// no more than max items are ever listed.
func listRecentIDs(lister messageLister, max int64) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}

	var ids []string
	pageToken := ""
	for int64(len(ids)) < max {
		toFetch := max - int64(len(ids))
		if toFetch > maxPageSize {
			toFetch = maxPageSize
		}

		pageIDs, next, err := lister.ListPage(pageToken, toFetch)
		if err != nil {
			return nil, err
		}
		ids = append(ids, pageIDs...)

		if next == "" || len(pageIDs) == 0 {
			break
		}
		pageToken = next
	}

	if int64(len(ids)) > max {
		ids = ids[:max]
	}
	return ids, nil
}
