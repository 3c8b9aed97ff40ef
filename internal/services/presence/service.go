package presence

import (
	"log/slog"

	"github.com/relayhq/chatrelay/internal/model"
)

// Service builds the presence notifications that surround a join or leave.
// It does no registry access of its own: callers hand it the snapshot taken
// under the registry lock, which guarantees the joiner's confirmation and the
// notification to everyone else carry the identical user list.
type Service struct {
	logger *slog.Logger
}

// New creates a new presence broadcaster
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "presence")),
	}
}

// JoinEvents returns the confirmation for the joiner and the announcement for
// everyone else, both built from the same post-join view.
func (s *Service) JoinEvents(view model.JoinedView) (toJoiner, toOthers model.ServerEvent) {
	toJoiner = model.ServerEvent{
		Type:     model.EventJoinSucceeded,
		Username: view.Username,
		Users:    view.Users,
	}
	toOthers = model.ServerEvent{
		Type:     model.EventUserJoined,
		Username: view.Username,
		Users:    view.Users,
	}
	s.logger.Debug("join events built", slog.String("username", view.Username))
	return toJoiner, toOthers
}

// JoinFailure returns the rejection event for a failed join attempt. Only the
// requester ever receives it.
func (s *Service) JoinFailure(err error) model.ServerEvent {
	return model.ServerEvent{
		Type:  model.EventJoinFailed,
		Error: err.Error(),
	}
}

// LeaveEvent returns the departure announcement carrying the post-removal
// user list.
func (s *Service) LeaveEvent(username string, users []string) model.ServerEvent {
	s.logger.Debug("leave event built", slog.String("username", username))
	return model.ServerEvent{
		Type:     model.EventUserLeft,
		Username: username,
		Users:    users,
	}
}

// MessageEvent returns the broadcast event for a routed chat message
func (s *Service) MessageEvent(msg model.ChatMessage) model.ServerEvent {
	return model.ServerEvent{
		Type:      model.EventChatMessage,
		Username:  msg.Username,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
}
