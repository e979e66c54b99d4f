package bot

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EgorLis/alyabot/internal/registry"
	"github.com/EgorLis/alyabot/internal/status"
)

// Platform — то, что сервису нужно от шлюза.
type Platform interface {
	Latency() time.Duration
	ResolveUser(userID string) (string, error)
}

// Reply — ответ на команду. Ephemeral учитывается только слэш-командами.
type Reply struct {
	Content   string
	Ephemeral bool
}

// Target — пользователь, над которым выполняется команда.
type Target struct {
	ID   string
	Name string
}

const (
	msgDenied    = "Only the owner can use this command"
	msgEmptyList = "No users are being auto-reacted to"
	msgSaveError = "Failed to save auto-react data: "
)

// Service — общая логика команд для обеих поверхностей (префикс и слэш).
type Service struct {
	reg      *registry.Registry
	status   *status.Reporter
	platform Platform
	ownerID  string
	name     string
	log      *zap.Logger
}

func NewService(reg *registry.Registry, st *status.Reporter, p Platform, ownerID, name string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reg: reg, status: st, platform: p, ownerID: ownerID, name: name, log: log}
}

func (s *Service) IsOwner(userID string) bool {
	return userID != "" && userID == s.ownerID
}

func (s *Service) Denied() Reply {
	return Reply{Content: msgDenied, Ephemeral: true}
}

// AutoReact — команда ar.
func (s *Service) AutoReact(callerID string, t Target, emoji string) (Reply, error) {
	if !s.IsOwner(callerID) {
		s.log.Info("denied", zap.String("cmd", "ar"), zap.String("caller", callerID))
		return s.Denied(), nil
	}
	if err := s.reg.Set(t.ID, emoji, callerID); err != nil {
		return Reply{Content: msgSaveError + err.Error()}, err
	}
	s.log.Info("auto-react set", zap.String("user", t.ID), zap.String("emoji", emoji))
	return Reply{Content: fmt.Sprintf("Now auto-reacting to %s with %s", t.Name, emoji)}, nil
}

// StopAutoReact — команда unar.
func (s *Service) StopAutoReact(callerID string, t Target) (Reply, error) {
	if !s.IsOwner(callerID) {
		s.log.Info("denied", zap.String("cmd", "unar"), zap.String("caller", callerID))
		return s.Denied(), nil
	}
	found, err := s.reg.Unset(t.ID)
	if err != nil {
		return Reply{Content: msgSaveError + err.Error()}, err
	}
	if !found {
		return Reply{Content: fmt.Sprintf("%s is not being auto-reacted to", t.Name)}, nil
	}
	s.log.Info("auto-react removed", zap.String("user", t.ID))
	return Reply{Content: fmt.Sprintf("Stopped auto-reacting to %s", t.Name)}, nil
}

// List — команда arlist. Неразрешимые id пропускаются, но остаются в реестре.
func (s *Service) List(callerID string) Reply {
	if !s.IsOwner(callerID) {
		s.log.Info("denied", zap.String("cmd", "arlist"), zap.String("caller", callerID))
		return s.Denied()
	}
	entries := s.reg.List()
	if len(entries) == 0 {
		return Reply{Content: msgEmptyList}
	}
	var sb strings.Builder
	sb.WriteString("Watched users:\n")
	for _, e := range entries {
		name, err := s.platform.ResolveUser(e.UserID)
		if err != nil {
			s.log.Debug("skip unresolvable user", zap.String("user", e.UserID), zap.Error(err))
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", name, e.Emoji)
	}
	return Reply{Content: sb.String()}
}

func (s *Service) Ping() Reply {
	return Reply{Content: fmt.Sprintf("Pong! %dms", status.Millis(s.platform.Latency()))}
}

func (s *Service) Uptime() Reply {
	return Reply{Content: fmt.Sprintf("%s has been running for: %s", s.name, s.status.UptimeString())}
}
