package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/core/ports"
	"github.com/vibin/news-relay/internal/logger"
)

// RelayService is the core service that turns an inbound message into one reply batch
type RelayService struct {
	router  *Router
	sources map[string]ports.SourcePort
	reply   ports.ReplyPort
	logger  logger.Logger
}

// NewRelayService creates a new RelayService. reply may be nil when only Preview is used.
func NewRelayService(router *Router, sources []ports.SourcePort, reply ports.ReplyPort, log logger.Logger) *RelayService {
	byName := make(map[string]ports.SourcePort, len(sources))
	for _, s := range sources {
		byName[s.Name()] = s
	}
	return &RelayService{
		router:  router,
		sources: byName,
		reply:   reply,
		logger:  log,
	}
}

// Triggers returns the routing table in priority order
func (s *RelayService) Triggers() []Trigger {
	return s.router.Triggers()
}

// Handle routes msg, queries the selected source and delivers the batch.
// Delivery failures are logged and not returned: the user simply gets no reply.
// The returned error is only non-nil for wiring problems such as an unregistered source.
func (s *RelayService) Handle(ctx context.Context, msg domain.IncomingMessage) error {
	log := s.logger.WithContext(ctx).WithField("event_id", uuid.NewString())

	route, batch, err := s.run(ctx, msg, log)
	if err != nil {
		return err
	}
	if batch == nil {
		log.Debug("No trigger matched, ignoring message", "kind", msg.Kind)
		return nil
	}

	if s.reply == nil {
		log.Warn("No reply port configured, dropping batch", "source", route.Source)
		return nil
	}
	if err := s.reply.Reply(ctx, msg.ReplyToken, batch); err != nil {
		log.Error("Failed to deliver reply", "source", route.Source, "error", err)
		return nil
	}

	log.Info("Reply delivered", "source", route.Source, "segments", len(batch))
	return nil
}

// Preview runs routing and retrieval without delivering anything.
// The batch is nil when no source was selected.
func (s *RelayService) Preview(ctx context.Context, msg domain.IncomingMessage) (Route, domain.ResponseBatch, error) {
	log := s.logger.WithContext(ctx).WithField("event_id", uuid.NewString())
	return s.run(ctx, msg, log)
}

func (s *RelayService) run(ctx context.Context, msg domain.IncomingMessage, log logger.Logger) (Route, domain.ResponseBatch, error) {
	route, ok := s.router.Route(msg)
	if !ok {
		return Route{}, nil, nil
	}

	source, found := s.sources[route.Source]
	if !found {
		return route, nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, route.Source)
	}

	log.Info("Querying source", "source", route.Source, "query", route.Query, "kind", msg.Kind)
	findings, err := source.Fetch(ctx, route.Query)
	if err != nil {
		log.Warn("Source retrieval failed", "source", route.Source, "error", err)
	}

	return route, assembleFindings(findings, err, source.Messages()), nil
}
