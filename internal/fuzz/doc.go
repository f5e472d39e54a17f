// Package fuzztests houses Go fuzz harnesses that exercise the formatting
// pipeline (bytes -> source.Lines -> formatters). Its goal is to smoke test
// robustness and guard against panics or runaway loops on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через буфер строк и форматтеры.
//
// Не делает: запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/format.

package fuzztests
