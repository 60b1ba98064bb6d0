// Package schema — декларативная проверка JSON-документов бота (config.json,
// commands.json) по таблице правил.
//
// Правило связывает путь внутри документа (Path) со списком тегов (Tags):
// ожидаемый тип (и типы элементов для списков), модификаторы
// (can_be_none, can_extend, can_be_multiple), ссылки на наборы вариантов
// (select_*, multiple_select_*), ссылку на вложенную таблицу для списков
// записей (records:<table>) и именованную проверку (check:<name>(args)).
//
// Validator проходит по всем правилам и:
//   - вставляет значения по умолчанию для отсутствующих ключей (если задан default);
//   - приводит значения неверного типа по "лестнице" преобразований;
//   - нормализует значения из наборов вариантов к каноническому виду;
//   - собирает все неисправимые пути в Report, не прерываясь на первой ошибке.
//
// Документ меняется на месте. Один и тот же документ нельзя проверять
// одновременно из нескольких горутин.
//
// Пример:
//
//	reg := schema.DefaultRegistry()
//	tables, err := schema.LoadTables(schema.NewPredicates())
//	if err != nil { log.Fatal(err) }
//	v := schema.NewValidator(reg, logrus.StandardLogger())
//	v.Register(tables.Values()...)
//
//	report := v.Validate(doc, tables["config"])
//	for _, p := range report.Errors() {
//		fmt.Println("invalid:", p) // ['clients'][0]['fortnite']['email']
//	}
package schema
