// Package bot — оболочка лобби-бота вокруг проверенных документов
// (config.json, commands.json), каталога косметики и сессий аккаунтов.
// Бот:
//   - собирает по аккаунту на каждую запись clients[i];
//   - разрешает имена косметики и плейлиста в конфиге в строки <Item ...>;
//   - определяет роль пользователя (owner > whitelist > blacklist > bot > user)
//     и проверяет настройки *_for и *_operation;
//   - разбирает команды по алиасам из commands.json, с выбором по номеру,
//     если нашлось несколько вариантов;
//   - выполняет fortnite.exec.ready после подключения;
//   - перечитывает оба документа по команде reload.
//
// Жизненный цикл:
//   - Создать бота через New(loader, configStore, commandsStore, opts, logger).
//   - (Опционально) задать OnEvent для дашборда и метрик.
//   - Запустить Start(ctx) и остановить Stop().
//
// Пример:
//
//	b := bot.New(loader, config.NewStore("config.json"), config.NewStore("commands.json"),
//		bot.Options{LangDir: "lang"}, log.StandardLogger())
//	if err := b.Start(ctx); err != nil { log.Fatal(err) }
//	defer b.Stop()
//
// Сетевой протокол игры и чата в пакет не входит: аккаунт работает через
// интерфейс Session, для локального запуска есть ConsoleSession.
package bot
