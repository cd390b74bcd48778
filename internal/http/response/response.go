// Package response содержит единый формат JSON‑ответа сервера и таксономию
// кодов ошибок. Все операции, успешные и неуспешные, отвечают одной и той же
// оболочкой {data, errcode, errmsg}; необработанных ошибок наружу не выходит.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Envelope описывает стандартную структуру JSON‑ответа сервера.
// Поле ErrCode — числовой статус: 0 при успехе, иначе код из таксономии ниже.
// Поле ErrMsg — человекочитаемое сообщение.
// Поле Data — полезные данные ответа (null при ошибке).
type Envelope struct {
	Data    any    `json:"data"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Коды ошибок. Forbidden и Internal разведены на разные значения:
// внутренняя ошибка не должна маскироваться под отказ в доступе.
const (
	// CodeOK — успешное выполнение операции.
	CodeOK = 0
	// CodeMissingField — отсутствует обязательное поле запроса.
	CodeMissingField = 400
	// CodeDuplicateEmail — email уже зарегистрирован.
	CodeDuplicateEmail = 401
	// CodeForbidden — недостаточно прав на операцию.
	CodeForbidden = 402
	// CodeNotFound — запись не найдена.
	CodeNotFound = 404
	// CodeInvalidCredentials — пароль не подошёл.
	CodeInvalidCredentials = 405
	// CodeInternal — внутренняя ошибка сервера.
	CodeInternal = 500
)

// OK возвращает успешный Envelope с переданными данными.
func OK(data any) Envelope {
	return Envelope{
		Data:    data,
		ErrCode: CodeOK,
		ErrMsg:  "success",
	}
}

// Error возвращает Envelope с кодом ошибки и сообщением.
func Error(code int, msg string) Envelope {
	return Envelope{
		Data:    nil,
		ErrCode: code,
		ErrMsg:  msg,
	}
}

// ValidationError формирует Envelope с кодом CodeMissingField на основе
// ошибок валидации. Каждое нарушение превращается в человекочитаемый текст,
// объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Envelope {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(CodeMissingField, strings.Join(errsMsgs, ", "))
}
