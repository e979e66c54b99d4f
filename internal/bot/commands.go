package bot

import (
	"errors"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// сплит с поддержкой кавычек: -ar @user "🔥"
var reArg = regexp.MustCompile(`"([^"]*)"|(\S+)`)

// <@123>, <@!123> или просто 123
var reUserRef = regexp.MustCompile(`^(?:<@!?(\d+)>|(\d+))$`)

var errUserNotFound = errors.New("user not found")

// HandleCommand разбирает префиксную команду из текста сообщения.
// ok=false — это не команда (нет префикса или неизвестное слово), отвечать не нужно.
func (bot *Bot) HandleCommand(authorID, content string, mentions []*discordgo.User) (reply Reply, ok bool) {
	if !strings.HasPrefix(content, bot.cfg.Prefix) {
		return Reply{}, false
	}
	fields := splitArgs(strings.TrimPrefix(content, bot.cfg.Prefix))
	if len(fields) == 0 {
		return Reply{}, false
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	p := bot.cfg.Prefix

	switch cmd {
	case "ping":
		return bot.svc.Ping(), true

	case "uptime":
		return bot.svc.Uptime(), true

	case "ar":
		// проверяем владельца до разбора аргументов
		if !bot.svc.IsOwner(authorID) {
			return bot.svc.Denied(), true
		}
		if len(args) < 2 {
			return Reply{Content: "Usage: " + p + "ar <@user> <emoji>"}, true
		}
		t, err := bot.resolveTarget(args[0], mentions)
		if err != nil {
			return Reply{Content: "User not found: " + args[0]}, true
		}
		r, err := bot.svc.AutoReact(authorID, t, args[1])
		bot.logCmdErr("ar", err)
		return r, true

	case "unar":
		if !bot.svc.IsOwner(authorID) {
			return bot.svc.Denied(), true
		}
		if len(args) < 1 {
			return Reply{Content: "Usage: " + p + "unar <@user>"}, true
		}
		t, err := bot.resolveTarget(args[0], mentions)
		if err != nil {
			return Reply{Content: "User not found: " + args[0]}, true
		}
		r, err := bot.svc.StopAutoReact(authorID, t)
		bot.logCmdErr("unar", err)
		return r, true

	case "arlist":
		return bot.svc.List(authorID), true

	default:
		bot.log.Debug("unknown prefixed command", zap.String("cmd", cmd))
		return Reply{}, false
	}
}

// resolveTarget: сначала упоминания из сообщения, потом шлюз.
func (bot *Bot) resolveTarget(ref string, mentions []*discordgo.User) (Target, error) {
	m := reUserRef.FindStringSubmatch(ref)
	if m == nil {
		return Target{}, errUserNotFound
	}
	id := m[1]
	if id == "" {
		id = m[2]
	}
	for _, u := range mentions {
		if u != nil && u.ID == id {
			return Target{ID: id, Name: u.Username}, nil
		}
	}
	name, err := bot.gw.ResolveUser(id)
	if err != nil {
		bot.log.Debug("resolve target", zap.String("user", id), zap.Error(err))
		return Target{}, errUserNotFound
	}
	return Target{ID: id, Name: name}, nil
}

func (bot *Bot) logCmdErr(cmd string, err error) {
	if err != nil {
		bot.log.Error("command failed", zap.String("cmd", cmd), zap.Error(err))
	}
}

func splitArgs(s string) []string {
	var out []string
	for _, m := range reArg.FindAllStringSubmatch(s, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}
