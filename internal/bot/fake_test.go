package bot

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/alyabot/internal/registry"
	"github.com/EgorLis/alyabot/internal/status"
)

const (
	ownerID    = "361069640962801664"
	strangerID = "999"
)

type reaction struct{ channel, message, emoji string }

type respond struct {
	content   string
	ephemeral bool
}

// fakeGateway — шлюз в памяти для тестов.
type fakeGateway struct {
	mu sync.Mutex

	names      map[string]string
	latency    time.Duration
	reactErr   error
	syncErr    error
	connectErr error

	reactions []reaction
	sent      []string
	responds  []respond
	synced    []*discordgo.ApplicationCommand
	watching  []string
	connected bool
	discons   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{names: map[string]string{}}
}

func (f *fakeGateway) Latency() time.Duration { return f.latency }

func (f *fakeGateway) ResolveUser(id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.names[id]; ok {
		return n, nil
	}
	return "", errors.New("unknown user")
}

func (f *fakeGateway) SetWatching(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watching = append(f.watching, name)
	return nil
}

func (f *fakeGateway) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeGateway) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.discons++
}

func (f *fakeGateway) AddReaction(channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, reaction{channelID, messageID, emoji})
	return f.reactErr
}

func (f *fakeGateway) Send(_ string, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	return nil
}

func (f *fakeGateway) Respond(_ *discordgo.Interaction, content string, ephemeral bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responds = append(f.responds, respond{content, ephemeral})
	return nil
}

func (f *fakeGateway) SyncCommands(_ string, cmds []*discordgo.ApplicationCommand) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.syncErr != nil {
		return 0, f.syncErr
	}
	f.synced = cmds
	return len(cmds), nil
}

func (f *fakeGateway) watchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watching)
}

func newTestBot(t *testing.T) (*Bot, *fakeGateway) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Token = "test"
	cfg.StateFile = filepath.Join(t.TempDir(), "auto_react.json")
	require.NoError(t, registry.EnsureFile(cfg.StateFile))

	b := New(cfg, registry.Load(cfg.StateFile, nil), nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.status = status.NewAt(start, func() time.Time { return start.Add(65 * time.Second) })

	gw := newFakeGateway()
	gw.names["111"] = "Bob"
	gw.names["222"] = "Alice"
	b.useGateway(gw)
	return b, gw
}

func message(authorID, content string, mentions ...*discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "u" + authorID},
		Mentions:  mentions,
	}}
}

func slash(callerID, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: callerID}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}}
}

func userOpt(id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: id,
	}
}

func emojiOpt(e string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: "emoji", Type: discordgo.ApplicationCommandOptionString, Value: e,
	}
}
