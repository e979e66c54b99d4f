package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrNoToken = errors.New("gateway: empty token")

type Client struct {
	s      *discordgo.Session
	log    *zap.Logger
	closed atomic.Bool

	// "События"
	OnConnecting   func()
	OnReady        func(*discordgo.Ready)
	OnMessage      func(*discordgo.MessageCreate)
	OnInteraction  func(*discordgo.InteractionCreate)
	OnDisconnected func()
}

func New(token string, log *zap.Logger) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if log == nil {
		log = zap.NewNop()
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("gateway: new session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsAll
	s.Dialer = &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 15 * time.Second,
	}
	s.Client = &http.Client{Timeout: 20 * time.Second}
	s.ShouldReconnectOnError = true

	c := &Client{s: s, log: log}
	c.bindHandlers()
	return c, nil
}

func (c *Client) bindHandlers() {
	c.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		if c.OnReady != nil {
			c.OnReady(r)
		}
	})
	c.s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if c.OnMessage != nil {
			c.OnMessage(m)
		}
	})
	c.s.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		if c.OnInteraction != nil {
			c.OnInteraction(i)
		}
	})
	c.s.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		c.log.Warn("gateway disconnected")
		if c.OnDisconnected != nil && !c.closed.Load() {
			c.OnDisconnected()
		}
	})
}

// Connect открывает websocket. Неверный токен возвращается ошибкой, повторов нет.
// Отмена контекста закрывает сессию.
func (c *Client) Connect(ctx context.Context) error {
	if c.OnConnecting != nil {
		c.OnConnecting()
	}
	c.closed.Store(false)
	if err := c.s.Open(); err != nil {
		c.closed.Store(true)
		return fmt.Errorf("gateway: open: %w", err)
	}
	go func() {
		<-ctx.Done()
		c.Disconnect()
	}()
	return nil
}

func (c *Client) Disconnect() {
	if c.closed.Swap(true) {
		return
	}
	if err := c.s.Close(); err != nil {
		c.log.Warn("gateway close", zap.Error(err))
	}
	if c.OnDisconnected != nil {
		c.OnDisconnected()
	}
}

func (c *Client) Latency() time.Duration {
	return c.s.HeartbeatLatency()
}

func (c *Client) AddReaction(channelID, messageID, emoji string) error {
	return c.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (c *Client) Send(channelID, content string) error {
	_, err := c.s.ChannelMessageSend(channelID, content)
	return err
}

func (c *Client) Respond(i *discordgo.Interaction, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return c.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// SyncCommands перезаписывает глобальные слэш-команды приложения и возвращает их число.
func (c *Client) SyncCommands(appID string, cmds []*discordgo.ApplicationCommand) (int, error) {
	out, err := c.s.ApplicationCommandBulkOverwrite(appID, "", cmds)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (c *Client) SetWatching(name string) error {
	return c.s.UpdateWatchStatus(0, name)
}

// ResolveUser ищет имя в кэше участников гильдий, затем через REST.
func (c *Client) ResolveUser(userID string) (string, error) {
	if st := c.s.State; st != nil {
		st.RLock()
		guilds := make([]string, 0, len(st.Guilds))
		for _, g := range st.Guilds {
			guilds = append(guilds, g.ID)
		}
		st.RUnlock()
		for _, gid := range guilds {
			if m, err := st.Member(gid, userID); err == nil && m.User != nil {
				return m.User.Username, nil
			}
		}
	}
	u, err := c.s.User(userID)
	if err != nil {
		return "", fmt.Errorf("resolve user %s: %w", userID, err)
	}
	return u.Username, nil
}
