// Package sl дополняет slog мелкими помощниками, общими для всего сервиса.
package sl

import "log/slog"

// Err упаковывает ошибку в атрибут с ключом "error", чтобы все записи
// об ошибках в логах имели одинаковую форму:
//
//	log.Error("failed to publish welcome message", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
