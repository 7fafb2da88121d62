package usecase

import (
	"context"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
	"github.com/sssalamanders/penny-lane/internal/core/port"
	"github.com/sssalamanders/penny-lane/internal/infra/logger"
	"github.com/sssalamanders/penny-lane/internal/infra/telemetry"
)

const defaultAdminCheckTimeout = 5 * time.Second

// RelayService is the state machine behind the registration command. It
// owns no state of its own: every fact lives in the registration store, and
// every chat interaction goes through the gateway. Identifiers never reach
// the log in the clear.
type RelayService struct {
	store             port.RegistrationStore
	chat              port.ChatGateway
	log               *zap.Logger
	metrics           *telemetry.Provider
	ttl               time.Duration
	adminCheckTimeout time.Duration
}

// NewRelayService constructs the coordinator. The ttl is only used to word
// user-facing messages; the store enforces the actual expiry.
func NewRelayService(store port.RegistrationStore, chat port.ChatGateway, ttl time.Duration, log *zap.Logger) *RelayService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RelayService{
		store:             store,
		chat:              chat,
		log:               log,
		ttl:               ttl,
		adminCheckTimeout: defaultAdminCheckTimeout,
	}
}

// WithTelemetry attaches metric instruments.
func (s *RelayService) WithTelemetry(metrics *telemetry.Provider) *RelayService {
	s.metrics = metrics
	return s
}

// WithAdminCheckTimeout overrides the deadline applied to the admin check.
func (s *RelayService) WithAdminCheckTimeout(d time.Duration) *RelayService {
	if d > 0 {
		s.adminCheckTimeout = d
	}
	return s
}

// HandleCommand drives one registration command to a terminal outcome.
func (s *RelayService) HandleCommand(ctx context.Context, cmd domain.Command) domain.Outcome {
	log := s.log.With(
		zap.String("request_id", uuid.NewString()),
		logger.Subject(cmd.SubjectID),
	)

	var outcome domain.Outcome
	switch cmd.Chat.Kind {
	case domain.ChatGroup:
		outcome = s.handleGroup(ctx, cmd, log.With(logger.Group(cmd.Chat.GroupID)))
	default:
		outcome = s.handlePrivate(ctx, cmd, log)
	}

	s.metrics.ObserveCommand(string(outcome))
	s.metrics.SetLiveEntries(s.store.Len())

	return outcome
}

// Status exposes the read-only health view of the relay.
func (s *RelayService) Status() domain.RelayStatus {
	return domain.RelayStatus{LiveEntries: s.store.Len()}
}

// handlePrivate registers the subject for a later group-context command.
// Repeats are idempotent and simply refresh the TTL.
func (s *RelayService) handlePrivate(ctx context.Context, cmd domain.Command, log *zap.Logger) domain.Outcome {
	entry := s.store.Put(cmd.SubjectID, domain.RegistrationAwaitingGroupContact, 0)

	log.Info("private registration stored",
		zap.Time("expires_at", entry.ExpiresAt),
	)

	s.reply(ctx, cmd, privateWelcomeMessage(s.ttl), log)
	return domain.OutcomeAcknowledged
}

// handleGroup is the authorization gate. The admin check is mandatory and
// independent of any prior private registration; ambiguous results refuse.
func (s *RelayService) handleGroup(ctx context.Context, cmd domain.Command, log *zap.Logger) domain.Outcome {
	checkCtx, cancel := context.WithTimeout(ctx, s.adminCheckTimeout)
	defer cancel()

	admin, err := s.chat.IsGroupAdmin(checkCtx, cmd.SubjectID, cmd.Chat.GroupID)
	if err != nil {
		log.Warn("admin check unavailable, refusing", zap.Error(err))
		s.reply(ctx, cmd, transientFailureMessage, log)
		return domain.OutcomeTransientFailure
	}
	if !admin {
		log.Info("non-admin refused")
		s.reply(ctx, cmd, adminsOnlyMessage, log)
		return domain.OutcomeUnauthorized
	}

	s.store.Put(cmd.SubjectID, domain.RegistrationFulfilled, cmd.Chat.GroupID)

	entry, ok := s.store.Take(cmd.SubjectID)
	if !ok {
		// A concurrent command for the same subject consumed the entry
		// first; that delivery is already on its way.
		log.Info("entry already consumed")
		s.reply(ctx, cmd, alreadySentMessage, log)
		return domain.OutcomeAcknowledged
	}

	payload := deliveryMessage(cmd.Chat.GroupTitle, entry.GroupID, s.ttl)
	if err := s.chat.DeliverPrivate(ctx, cmd.SubjectID, payload); err != nil {
		s.metrics.IncDeliveryFailure()
		log.Warn("private delivery failed", zap.Error(err))
		s.reply(ctx, cmd, deliveryFailedMessage, log)
		return domain.OutcomeTransientFailure
	}

	log.Info("group id delivered privately")
	s.reply(ctx, cmd, deliveredMessage, log)
	return domain.OutcomeDelivered
}

// reply is best-effort: a failed acknowledgment never changes the outcome.
func (s *RelayService) reply(ctx context.Context, cmd domain.Command, text string, log *zap.Logger) {
	if err := s.chat.Reply(ctx, cmd.Chat.ChatID, cmd.MessageID, text); err != nil {
		log.Warn("reply failed", zap.Error(err))
	}
}
