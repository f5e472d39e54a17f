// Package format contains the line-level formatting passes and the pipeline
// that chains them.
//
// Назначение: правила переписывания строк (хвостовые пробелы, табы, импорты,
// длина строки) поверх source.Lines.
// Не делает: токенизацию, AST или IO. Все правила работают эвристиками на
// сырых строках.
// Зависимости: internal/source, internal/trace.
package format
