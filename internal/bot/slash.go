package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// SlashCommands — набор, который синхронизируется с Discord на READY.
func SlashCommands() []*discordgo.ApplicationCommand {
	userOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Target user",
		Required:    true,
	}
	return []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Check bot latency"},
		{Name: "uptime", Description: "Show how long the bot has been running"},
		{
			Name:        "ar",
			Description: "Auto-react to a user's messages (owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				userOpt,
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Emoji to react with",
					Required:    true,
				},
			},
		},
		{
			Name:        "unar",
			Description: "Remove auto-react from a user (owner only)",
			Options:     []*discordgo.ApplicationCommandOption{userOpt},
		},
		{Name: "arlist", Description: "List all auto-reacted users (owner only)"},
	}
}

// HandleSlash переводит слэш-команду в вызов сервиса. ok=false — не наша команда.
func (bot *Bot) HandleSlash(i *discordgo.InteractionCreate) (reply Reply, ok bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return Reply{}, false
	}
	data := i.ApplicationCommandData()
	caller := callerID(i.Interaction)
	bot.log.Debug("slash command", zap.String("cmd", data.Name), zap.String("caller", caller))

	switch data.Name {
	case "ping":
		return bot.svc.Ping(), true

	case "uptime":
		return bot.svc.Uptime(), true

	case "ar":
		if !bot.svc.IsOwner(caller) {
			return bot.svc.Denied(), true
		}
		opts := optionMap(data.Options)
		u, e := opts["user"], opts["emoji"]
		if u == nil || e == nil {
			return Reply{Content: "Missing arguments", Ephemeral: true}, true
		}
		t := bot.slashTarget(data, u)
		r, err := bot.svc.AutoReact(caller, t, e.StringValue())
		bot.logCmdErr("ar", err)
		return r, true

	case "unar":
		if !bot.svc.IsOwner(caller) {
			return bot.svc.Denied(), true
		}
		u := optionMap(data.Options)["user"]
		if u == nil {
			return Reply{Content: "Missing arguments", Ephemeral: true}, true
		}
		r, err := bot.svc.StopAutoReact(caller, bot.slashTarget(data, u))
		bot.logCmdErr("unar", err)
		return r, true

	case "arlist":
		return bot.svc.List(caller), true

	default:
		return Reply{}, false
	}
}

// имя берём из resolved-данных взаимодействия, иначе спрашиваем шлюз
func (bot *Bot) slashTarget(data discordgo.ApplicationCommandInteractionData, opt *discordgo.ApplicationCommandInteractionDataOption) Target {
	id, _ := opt.Value.(string)
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok && u != nil {
			return Target{ID: id, Name: u.Username}
		}
	}
	if name, err := bot.gw.ResolveUser(id); err == nil {
		return Target{ID: id, Name: name}
	}
	return Target{ID: id, Name: "<@" + id + ">"}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// в гильдии автор лежит в Member, в личке — в User
func callerID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
