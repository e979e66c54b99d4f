// Package bot — "склейка" вокруг gateway, registry и status, реализующая
// бота авто-реакций. Бот:
//   - ставит заданную реакцию на каждое сообщение отслеживаемых пользователей;
//   - обрабатывает префиксные команды (-ar, -unar, -arlist, -ping, -uptime);
//   - обрабатывает те же команды как слэш-команды (/ar, /unar, ...);
//   - раз в минуту обновляет статус "Watching ...".
//
// Обе поверхности команд — тонкие адаптеры над Service. Изменять реестр
// (и смотреть список) может только владелец; проверка явная на обоих путях.
// В слэш-командах отказ виден только вызвавшему (ephemeral), в префиксных —
// обычное сообщение в канал.
//
// Жизненный цикл:
//
//	reg := registry.Load(cfg.StateFile, log)
//	b := bot.New(cfg, reg, log)
//	b.SetGateway(gw)
//	if err := b.Start(ctx); err != nil { ... }
//	defer b.Stop()
package bot
