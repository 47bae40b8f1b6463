package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/bankfeed"
)

type mockLinkRepo struct {
	listActiveFunc  func(ctx context.Context, userID int64) ([]*banklink.BankLink, error)
	markRevokedFunc func(ctx context.Context, id uuid.UUID) error
	listUserIDsFunc func(ctx context.Context) ([]int64, error)
}

func (m *mockLinkRepo) Create(ctx context.Context, params banklink.CreateParams) (*banklink.BankLink, error) {
	return nil, errors.New("not implemented")
}

func (m *mockLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*banklink.BankLink, error) {
	return nil, errors.New("not implemented")
}

func (m *mockLinkRepo) ListActiveByUserID(ctx context.Context, userID int64) ([]*banklink.BankLink, error) {
	return m.listActiveFunc(ctx, userID)
}

func (m *mockLinkRepo) MarkRevoked(ctx context.Context, id uuid.UUID) error {
	return m.markRevokedFunc(ctx, id)
}

func (m *mockLinkRepo) ListUserIDsWithActiveLinks(ctx context.Context) ([]int64, error) {
	return m.listUserIDsFunc(ctx)
}

type mockHealthFeed struct {
	getAccountsFunc func(ctx context.Context, accessToken string) ([]bankfeed.RawAccount, error)
}

func (m *mockHealthFeed) CreateLinkToken(ctx context.Context, userID string) (*bankfeed.LinkToken, error) {
	return nil, errors.New("not implemented")
}

func (m *mockHealthFeed) ExchangePublicToken(ctx context.Context, publicToken string) (*bankfeed.AccessCredential, error) {
	return nil, errors.New("not implemented")
}

func (m *mockHealthFeed) GetAccounts(ctx context.Context, accessToken string) ([]bankfeed.RawAccount, error) {
	return m.getAccountsFunc(ctx, accessToken)
}

func (m *mockHealthFeed) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]bankfeed.RawTransaction, error) {
	return nil, errors.New("not implemented")
}

type mockNotifier struct {
	sent []string
}

func (m *mockNotifier) SendRelinkRequired(ctx context.Context, userID int64, institutionName string) error {
	m.sent = append(m.sent, institutionName)
	return nil
}

func TestLinkHealthJob_RevokesDeadCredential(t *testing.T) {
	healthy := &banklink.BankLink{ID: uuid.New(), InstitutionName: "Healthy Bank", AccessToken: "good"}
	dead := &banklink.BankLink{ID: uuid.New(), InstitutionName: "Dead Bank", AccessToken: "revoked"}

	var revokedIDs []uuid.UUID
	repo := &mockLinkRepo{
		listActiveFunc: func(ctx context.Context, userID int64) ([]*banklink.BankLink, error) {
			return []*banklink.BankLink{healthy, dead}, nil
		},
		markRevokedFunc: func(ctx context.Context, id uuid.UUID) error {
			revokedIDs = append(revokedIDs, id)
			return nil
		},
	}

	feed := &mockHealthFeed{
		getAccountsFunc: func(ctx context.Context, accessToken string) ([]bankfeed.RawAccount, error) {
			if accessToken == "revoked" {
				return nil, &bankfeed.ProviderError{Code: "ITEM_LOGIN_REQUIRED", Err: bankfeed.ErrInvalidToken}
			}
			return nil, nil
		},
	}

	notifier := &mockNotifier{}
	job := NewLinkHealthJob(1, repo, feed, notifier)

	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if len(revokedIDs) != 1 || revokedIDs[0] != dead.ID {
		t.Errorf("revoked %v, want only %s", revokedIDs, dead.ID)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "Dead Bank" {
		t.Errorf("notified %v, want [Dead Bank]", notifier.sent)
	}
}

func TestLinkHealthJob_TransientFailureLeftAlone(t *testing.T) {
	link := &banklink.BankLink{ID: uuid.New(), InstitutionName: "Flaky Bank", AccessToken: "tok"}

	repo := &mockLinkRepo{
		listActiveFunc: func(ctx context.Context, userID int64) ([]*banklink.BankLink, error) {
			return []*banklink.BankLink{link}, nil
		},
		markRevokedFunc: func(ctx context.Context, id uuid.UUID) error {
			t.Error("transient failure must not revoke the link")
			return nil
		},
	}

	feed := &mockHealthFeed{
		getAccountsFunc: func(ctx context.Context, accessToken string) ([]bankfeed.RawAccount, error) {
			return nil, &bankfeed.ProviderError{Code: "TIMEOUT", Retryable: true, Err: bankfeed.ErrProviderUnavailable}
		},
	}

	notifier := &mockNotifier{}
	job := NewLinkHealthJob(1, repo, feed, notifier)

	err := job.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error so the run is retried")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("transient failure should not notify, sent %v", notifier.sent)
	}
}

func TestNewHealthJobProvider(t *testing.T) {
	repo := &mockLinkRepo{
		listUserIDsFunc: func(ctx context.Context) ([]int64, error) {
			return []int64{3, 7, 11}, nil
		},
	}

	provider := NewHealthJobProvider(repo, &mockHealthFeed{}, &mockNotifier{})

	jobs, err := provider(context.Background())
	if err != nil {
		t.Fatalf("provider failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs, want 3", len(jobs))
	}
	if jobs[1].UserID() != "7" {
		t.Errorf("jobs[1].UserID() = %s, want 7", jobs[1].UserID())
	}
}

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ScheduleTime
		wantErr bool
	}{
		{"06:30", ScheduleTime{6, 30}, false},
		{"23:59", ScheduleTime{23, 59}, false},
		{"0:0", ScheduleTime{0, 0}, false},
		{"24:00", ScheduleTime{}, true},
		{"12:60", ScheduleTime{}, true},
		{"noon", ScheduleTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScheduleTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseScheduleTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
