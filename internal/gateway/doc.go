// Package gateway — обёртка над discordgo-сессией: подключение к шлюзу Discord,
// события (колбэки-поля, как EventEmitter) и те немногие вызовы API, которые
// нужны боту:
//
//   - AddReaction, Send, Respond — реакции, ответы в канал и на слэш-команды;
//   - SyncCommands — полная перезапись глобального набора слэш-команд;
//   - SetWatching — статус "Watching ...";
//   - ResolveUser — имя пользователя по id (кэш шлюза, затем REST);
//   - Latency — текущий RTT heartbeat'а.
//
// События:
//   - OnConnecting, OnReady, OnMessage, OnInteraction, OnDisconnected.
//
// WebSocket поднимается через gorilla/websocket с таймаутом рукопожатия и
// прокси из окружения (HTTPS_PROXY).
//
// Пример:
//
//	gw, err := gateway.New(token, log)
//	if err != nil { return err }
//	gw.OnMessage = func(m *discordgo.MessageCreate) { ... }
//	if err := gw.Connect(ctx); err != nil { return err }
//	defer gw.Disconnect()
package gateway
