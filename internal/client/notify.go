// Package client реализует HTTP-клиент сервиса с перехватом конвертов
// ответов: каждый ответ с ненулевым errcode превращается ровно в одно
// человекочитаемое уведомление.
package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/magabrotheeeer/user-hub/internal/http/response"
)

// DefaultErrMsg показывается, когда конверт не содержит текста ошибки
// или тело ответа вовсе не является конвертом.
const DefaultErrMsg = "server error"

// Notifier получает человекочитаемое сообщение об ошибке.
// Вызывается не более одного раза на ответ.
type Notifier func(msg string)

// NotifyTransport оборачивает http.RoundTripper и разбирает конверт
// каждого ответа. Тело ответа остаётся читаемым для вызывающего кода.
type NotifyTransport struct {
	next   http.RoundTripper
	notify Notifier
}

// NewNotifyTransport создает новый экземпляр NotifyTransport.
// При nil next используется http.DefaultTransport.
func NewNotifyTransport(next http.RoundTripper, notify Notifier) *NotifyTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &NotifyTransport{next: next, notify: notify}
}

// RoundTrip выполняет запрос и извлекает сообщение об ошибке из
// конверта ответа. Транспортная ошибка тоже порождает уведомление.
func (t *NotifyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.notify(DefaultErrMsg)
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		t.notify(DefaultErrMsg)
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if msg, failed := extractErrMsg(body, resp.StatusCode); failed {
		t.notify(msg)
	}
	return resp, nil
}

// extractErrMsg разбирает конверт и возвращает текст ошибки.
// Второе значение — признак того, что ответ считается ошибочным.
// Тело без конверта (plain text, пустой ответ) ошибкой не считается,
// пока сам HTTP-статус успешен.
func extractErrMsg(body []byte, statusCode int) (string, bool) {
	var env response.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if statusCode < http.StatusBadRequest {
			return "", false
		}
		return DefaultErrMsg, true
	}
	if env.ErrCode == response.CodeOK {
		return "", false
	}
	if env.ErrMsg == "" {
		return DefaultErrMsg, true
	}
	return env.ErrMsg, true
}

// NewClient возвращает http.Client с перехватом конвертов ответов.
func NewClient(notify Notifier) *http.Client {
	return &http.Client{Transport: NewNotifyTransport(nil, notify)}
}
