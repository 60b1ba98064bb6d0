// Package catalog загружает каталоги косметики, плейлистов и баннеров
// у одного из трёх провайдеров (BenBot, Fortnite-API, FortniteApi.io),
// приводит их к общему виду и кэширует в SQLite.
//
// Updater раз в Interval проверяет свежесть кэша (2 часа и совпадение
// провайдера) и перекачивает устаревшее. Текущие данные — Snapshot.
package catalog
