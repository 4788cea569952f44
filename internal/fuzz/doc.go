// Package fuzztests houses Go fuzz harnesses for the ember front end
// (source text -> rule.Scan, source text -> parser). They guard against
// panics, hangs and broken tree invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через сканер и парсер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
