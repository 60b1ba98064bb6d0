// Package search ищет предметы, стили, плейлисты и пользователей.
//
// Запрос и кандидат проходят через один и тот же Folder (casefold,
// ширина символов, катакана → хирагана, опционально кандзи через
// Converter), после чего сравниваются подстрокой. Основной индекс
// полностью затеняет запасной: запасной смотрится, только если в
// основном ничего не нашлось.
package search
