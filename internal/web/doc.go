// Package web — дашборд бота: вход по паролю, JSON API для настроек,
// команд и поиска, поток событий по websocket и метрики Prometheus.
//
// Маршруты:
//
//	POST /login, POST /logout
//	GET  /healthz, GET /metrics
//	GET  /api/config, POST /api/config
//	GET  /api/commands, POST /api/commands
//	GET  /api/search/items?mode=name&q=...&types=...
//	POST /api/command            (только при web.command_web)
//	GET  /api/events             (websocket)
//
// При web.login_required группа /api требует cookie X-SessionId,
// выданную POST /login. Сессия живёт 10 минут с последнего запроса.
//
// Кадры /api/events — бинарные google.protobuf.Struct, с ?format=json —
// текстовые protojson.
package web
