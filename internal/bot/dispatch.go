package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// HandleMessage вызывается на каждое входящее сообщение: сначала авто-реакция,
// затем префиксные команды.
func (bot *Bot) HandleMessage(m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}

	if e, ok := bot.reg.Watched(m.Author.ID); ok {
		bot.reactBestEffort(m.ChannelID, m.ID, e.Emoji)
	}

	reply, ok := bot.HandleCommand(m.Author.ID, m.Content, m.Mentions)
	if !ok {
		return
	}
	if err := bot.gw.Send(m.ChannelID, reply.Content); err != nil {
		bot.log.Warn("send reply", zap.String("channel", m.ChannelID), zap.Error(err))
	}
}

// reactBestEffort ставит реакцию; любая ошибка (невалидный эмодзи, нет прав)
// только логируется и на обработку сообщения не влияет.
func (bot *Bot) reactBestEffort(channelID, messageID, emoji string) {
	if err := bot.gw.AddReaction(channelID, messageID, normalizeEmoji(emoji)); err != nil {
		bot.log.Debug("auto-react failed",
			zap.String("channel", channelID),
			zap.String("message", messageID),
			zap.String("emoji", emoji),
			zap.Error(err))
	}
}

// API реакций ждёт "name:id" для кастомных эмодзи, а пользователь вводит "<:name:id>".
func normalizeEmoji(s string) string {
	if len(s) > 2 && s[0] == '<' && s[len(s)-1] == '>' {
		s = s[1 : len(s)-1]
		if len(s) > 2 && s[0] == 'a' && s[1] == ':' {
			return s[2:]
		}
		if s[0] == ':' {
			return s[1:]
		}
	}
	return s
}
