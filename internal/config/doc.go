// Package config — документы config.json и commands.json.
//
// Store читает и пишет файл под flock, Loader прогоняет документ через
// schema.Validator (умолчания, приведения, нормализация), делает
// перекрёстные проверки и сохраняет исправленный документ обратно.
// Типизированные представления (Settings, Client, Commands) строятся
// только из документа без ошибок.
package config
