// Package fuzztests houses Go fuzz harnesses for the template front end
// (source -> lexer -> token components). Its goal is to smoke test robustness
// and guard against panics or broken token streams on arbitrary inputs.
//
// Назначение: загружать байты в FileSet, прогонять их через лексер и
// проверять инварианты потока токенов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/token,
// internal/diag, internal/testkit.
package fuzztests
