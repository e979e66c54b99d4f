package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/EgorLis/alyabot/internal/gateway"
	"github.com/EgorLis/alyabot/internal/registry"
	"github.com/EgorLis/alyabot/internal/status"
)

// Gateway — всё, чем бот пользуется у шлюза. *gateway.Client его реализует.
type Gateway interface {
	Platform
	Presence
	Connect(ctx context.Context) error
	Disconnect()
	AddReaction(channelID, messageID, emoji string) error
	Send(channelID, content string) error
	Respond(i *discordgo.Interaction, content string, ephemeral bool) error
	SyncCommands(appID string, cmds []*discordgo.ApplicationCommand) (int, error)
}

var _ Gateway = (*gateway.Client)(nil)

type Bot struct {
	cfg    Config
	reg    *registry.Registry
	status *status.Reporter
	svc    *Service
	gw     Gateway
	log    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	ctx    context.Context
	wg     sync.WaitGroup

	presenceOnce sync.Once
}

func New(cfg Config, reg *registry.Registry, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		cfg:    cfg,
		reg:    reg,
		status: status.New(),
		log:    log,
	}
}

// SetGateway подключает клиента шлюза и вешает обработчики событий.
func (bot *Bot) SetGateway(c *gateway.Client) {
	c.OnConnecting = func() { bot.log.Info("connecting...") }
	c.OnReady = bot.HandleReady
	c.OnMessage = bot.HandleMessage
	c.OnInteraction = bot.HandleInteraction
	c.OnDisconnected = func() { bot.log.Info("disconnected") }
	bot.useGateway(c)
}

func (bot *Bot) useGateway(g Gateway) {
	bot.gw = g
	bot.svc = NewService(bot.reg, bot.status, g, bot.cfg.OwnerID, bot.cfg.Name, bot.log.Named("service"))
}

func (bot *Bot) Start(ctx context.Context) error {
	if bot == nil {
		return errors.New("bot is not initialized")
	}
	if bot.gw == nil {
		return errors.New("gateway is not set")
	}
	bot.mu.Lock()
	if bot.cancel != nil {
		bot.mu.Unlock()
		return errors.New("already started")
	}
	bot.ctx, bot.cancel = context.WithCancel(ctx)
	runCtx := bot.ctx
	bot.mu.Unlock()

	if err := bot.gw.Connect(runCtx); err != nil {
		bot.mu.Lock()
		bot.cancel()
		bot.cancel, bot.ctx = nil, nil
		bot.mu.Unlock()
		return err
	}
	return nil
}

// Stop идемпотентен.
func (bot *Bot) Stop() {
	bot.mu.Lock()
	cancel := bot.cancel
	bot.cancel = nil
	bot.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	bot.wg.Wait()
	bot.gw.Disconnect()
}

// HandleReady: баннер в лог, синхронизация слэш-команд, запуск статуса.
// Ошибка синхронизации не мешает работе префиксных команд.
func (bot *Bot) HandleReady(r *discordgo.Ready) {
	var selfID string
	if r != nil && r.User != nil {
		selfID = r.User.ID
	}
	guilds := 0
	if r != nil {
		guilds = len(r.Guilds)
	}
	bot.log.Info("online",
		zap.String("bot_id", selfID),
		zap.Int("servers", guilds),
		zap.String("state_file", bot.reg.Path()),
		zap.Int("watched", bot.reg.Len()))

	appID := selfID
	if r != nil && r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}
	if n, err := bot.gw.SyncCommands(appID, SlashCommands()); err != nil {
		bot.log.Error("failed to sync slash commands", zap.Error(err))
	} else {
		bot.log.Info("synced slash commands", zap.Int("count", n))
	}

	bot.startPresence()
}

// на реконнекте READY приходит снова, цикл статуса запускаем один раз
func (bot *Bot) startPresence() {
	bot.presenceOnce.Do(func() {
		bot.mu.Lock()
		defer bot.mu.Unlock()
		if bot.cancel == nil {
			return // уже остановлен
		}
		ctx := bot.ctx
		every := bot.cfg.StatusEvery
		if every <= 0 {
			every = time.Minute
		}
		bot.wg.Add(1)
		go func() {
			defer bot.wg.Done()
			runPresence(ctx, bot.gw, bot.cfg.Status, every, bot.log)
		}()
	})
}

func (bot *Bot) HandleInteraction(i *discordgo.InteractionCreate) {
	reply, ok := bot.HandleSlash(i)
	if !ok {
		return
	}
	if err := bot.gw.Respond(i.Interaction, reply.Content, reply.Ephemeral); err != nil {
		bot.log.Warn("respond to interaction", zap.Error(err))
	}
}
