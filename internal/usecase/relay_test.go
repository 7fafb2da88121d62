package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
	"github.com/sssalamanders/penny-lane/internal/repository/memory"
)

const (
	testSubject = int64(987654321)
	testGroup   = int64(-1009876543210)
)

type gatewayMock struct {
	mu sync.Mutex

	admin            bool
	adminErr         error
	adminWaitsForCtx bool

	deliverErr error

	adminCalls  int
	delivered   []string
	deliveredTo []int64
	replies     []string
	replyChats  []int64
}

func (m *gatewayMock) IsGroupAdmin(ctx context.Context, subjectID, groupID int64) (bool, error) {
	m.mu.Lock()
	m.adminCalls++
	waits := m.adminWaitsForCtx
	m.mu.Unlock()

	if waits {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return m.admin, m.adminErr
}

func (m *gatewayMock) DeliverPrivate(_ context.Context, subjectID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deliverErr != nil {
		return m.deliverErr
	}
	m.delivered = append(m.delivered, text)
	m.deliveredTo = append(m.deliveredTo, subjectID)
	return nil
}

func (m *gatewayMock) Reply(_ context.Context, chatID int64, _ int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, text)
	m.replyChats = append(m.replyChats, chatID)
	return nil
}

func privateCommand(subjectID int64) domain.Command {
	return domain.Command{
		SubjectID: subjectID,
		Chat:      domain.ChatContext{Kind: domain.ChatPrivate, ChatID: subjectID},
		MessageID: 11,
	}
}

func groupCommand(subjectID, groupID int64) domain.Command {
	return domain.Command{
		SubjectID: subjectID,
		Chat: domain.ChatContext{
			Kind:       domain.ChatGroup,
			ChatID:     groupID,
			GroupID:    groupID,
			GroupTitle: "The Cavern Club",
		},
		MessageID: 12,
	}
}

func TestRelayService_PrivateCommandRegistersSubject(t *testing.T) {
	base := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	store := memory.NewRegistrationStore(5 * time.Minute).WithClock(func() time.Time { return base })
	gateway := &gatewayMock{}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	outcome := svc.HandleCommand(context.Background(), privateCommand(testSubject))
	if outcome != domain.OutcomeAcknowledged {
		t.Fatalf("expected acknowledged, got %s", outcome)
	}

	entry, ok := store.Get(testSubject)
	if !ok {
		t.Fatalf("expected registration entry stored")
	}
	if entry.State != domain.RegistrationAwaitingGroupContact {
		t.Fatalf("expected awaiting state, got %s", entry.State)
	}
	if entry.GroupID != 0 {
		t.Fatalf("expected no group id yet, got %d", entry.GroupID)
	}

	if len(gateway.replies) != 1 {
		t.Fatalf("expected one reply, got %d", len(gateway.replies))
	}
	if !strings.Contains(gateway.replies[0], "/bandaid") {
		t.Fatalf("expected instructions in reply, got %q", gateway.replies[0])
	}
	if len(gateway.delivered) != 0 {
		t.Fatalf("expected no private delivery on registration")
	}
	if gateway.adminCalls != 0 {
		t.Fatalf("expected no admin check in private context")
	}
}

func TestRelayService_RepeatPrivateCommandRefreshesTTL(t *testing.T) {
	base := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	now := base
	store := memory.NewRegistrationStore(5 * time.Minute).WithClock(func() time.Time { return now })
	gateway := &gatewayMock{}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	svc.HandleCommand(context.Background(), privateCommand(testSubject))

	now = base.Add(2 * time.Minute)
	outcome := svc.HandleCommand(context.Background(), privateCommand(testSubject))
	if outcome != domain.OutcomeAcknowledged {
		t.Fatalf("expected acknowledged on repeat, got %s", outcome)
	}

	entry, ok := store.Get(testSubject)
	if !ok {
		t.Fatalf("expected entry present")
	}
	if entry.ExpiresAt != now.Add(5*time.Minute) {
		t.Fatalf("expected refreshed expiry %v, got %v", now.Add(5*time.Minute), entry.ExpiresAt)
	}
	if store.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", store.Len())
	}
}

func TestRelayService_GroupCommandDeliversToAdminPrivately(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{admin: true}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	svc.HandleCommand(context.Background(), privateCommand(testSubject))

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeDelivered {
		t.Fatalf("expected delivered, got %s", outcome)
	}

	if len(gateway.delivered) != 1 {
		t.Fatalf("expected one private delivery, got %d", len(gateway.delivered))
	}
	if gateway.deliveredTo[0] != testSubject {
		t.Fatalf("expected delivery to subject, got %d", gateway.deliveredTo[0])
	}
	rawGroup := fmt.Sprintf("%d", testGroup)
	if !strings.Contains(gateway.delivered[0], rawGroup) {
		t.Fatalf("expected private payload to carry the group id")
	}
	if !strings.Contains(gateway.delivered[0], "The Cavern Club") {
		t.Fatalf("expected private payload to carry the group title")
	}

	// The group-side reply must stay generic.
	for _, reply := range gateway.replies {
		if strings.Contains(reply, rawGroup) {
			t.Fatalf("group reply leaked the identifier: %q", reply)
		}
	}

	// Consume-once: the entry is gone immediately after delivery.
	if _, ok := store.Take(testSubject); ok {
		t.Fatalf("expected entry consumed after delivery")
	}
}

func TestRelayService_GroupCommandWithoutPriorRegistrationStillDelivers(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{admin: true}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeDelivered {
		t.Fatalf("expected delivered without prior registration, got %s", outcome)
	}
	if gateway.adminCalls != 1 {
		t.Fatalf("expected the admin check to gate delivery")
	}
}

func TestRelayService_NonAdminIsRefusedWithoutMutation(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{admin: false}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", outcome)
	}

	if store.Len() != 0 {
		t.Fatalf("expected zero registry mutation, got %d entries", store.Len())
	}
	if len(gateway.delivered) != 0 {
		t.Fatalf("expected no private delivery for non-admin")
	}
	if len(gateway.replies) != 1 {
		t.Fatalf("expected one generic reply, got %d", len(gateway.replies))
	}
	if strings.Contains(gateway.replies[0], fmt.Sprintf("%d", testGroup)) {
		t.Fatalf("refusal reply leaked the identifier")
	}
}

func TestRelayService_AdminCheckErrorFailsClosed(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{admin: true, adminErr: errors.New("bot api unreachable")}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeTransientFailure {
		t.Fatalf("expected transient failure, got %s", outcome)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no partial state committed")
	}
	if len(gateway.delivered) != 0 {
		t.Fatalf("expected no delivery on ambiguous admin check")
	}
}

func TestRelayService_AdminCheckTimeoutFailsClosed(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{adminWaitsForCtx: true}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop()).
		WithAdminCheckTimeout(10 * time.Millisecond)

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeTransientFailure {
		t.Fatalf("expected transient failure on timeout, got %s", outcome)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no partial state committed")
	}
}

func TestRelayService_ExpiredRegistrationDoesNotBlockGroupPath(t *testing.T) {
	base := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	now := base
	store := memory.NewRegistrationStore(5 * time.Minute).WithClock(func() time.Time { return now })
	gateway := &gatewayMock{admin: true}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	svc.HandleCommand(context.Background(), privateCommand(testSubject))

	// Six minutes later the private registration has lapsed.
	now = base.Add(6 * time.Minute)
	if _, ok := store.Get(testSubject); ok {
		t.Fatalf("expected the stale registration to be gone before the group command")
	}

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeDelivered {
		t.Fatalf("expected delivery via the admin-check path, got %s", outcome)
	}
}

type takeAbsentStore struct {
	*memory.RegistrationStore
}

func (s takeAbsentStore) Take(int64) (domain.RegistrationEntry, bool) {
	return domain.RegistrationEntry{}, false
}

func TestRelayService_ConsumedEntryYieldsAcknowledgment(t *testing.T) {
	store := takeAbsentStore{memory.NewRegistrationStore(5 * time.Minute)}
	gateway := &gatewayMock{admin: true}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeAcknowledged {
		t.Fatalf("expected acknowledged when a concurrent command consumed the entry, got %s", outcome)
	}
	if len(gateway.delivered) != 0 {
		t.Fatalf("expected no duplicate delivery")
	}
}

func TestRelayService_DeliveryFailureIsTransient(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{admin: true, deliverErr: errors.New("bot was blocked by the user")}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	outcome := svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))
	if outcome != domain.OutcomeTransientFailure {
		t.Fatalf("expected transient failure, got %s", outcome)
	}
	for _, reply := range gateway.replies {
		if strings.Contains(reply, fmt.Sprintf("%d", testGroup)) {
			t.Fatalf("failure reply leaked the identifier: %q", reply)
		}
	}
}

func TestRelayService_LogsNeverCarryRawIdentifiers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{admin: true}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.New(core))

	svc.HandleCommand(context.Background(), privateCommand(testSubject))
	svc.HandleCommand(context.Background(), groupCommand(testSubject, testGroup))

	rawSubject := fmt.Sprintf("%d", testSubject)
	rawGroup := fmt.Sprintf("%d", testGroup)
	for _, entry := range logs.All() {
		line := entry.Message
		for _, field := range entry.Context {
			line += " " + field.Key + "=" + field.String
		}
		if strings.Contains(line, rawSubject) || strings.Contains(line, rawGroup) {
			t.Fatalf("log line carries a raw identifier: %q", line)
		}
	}
	if logs.Len() == 0 {
		t.Fatalf("expected events to be logged")
	}
}

func TestRelayService_StatusReportsLiveEntries(t *testing.T) {
	store := memory.NewRegistrationStore(5 * time.Minute)
	gateway := &gatewayMock{}
	svc := NewRelayService(store, gateway, 5*time.Minute, zap.NewNop())

	svc.HandleCommand(context.Background(), privateCommand(testSubject))
	svc.HandleCommand(context.Background(), privateCommand(testSubject+1))

	if got := svc.Status().LiveEntries; got != 2 {
		t.Fatalf("expected 2 live entries, got %d", got)
	}
}
