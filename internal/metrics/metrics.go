// Package metrics содержит счетчики Prometheus для ключевых операций сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal — число успешных регистраций.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "userhub_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	// LoginsTotal — число попыток входа с разбивкой по результату.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userhub_logins_total",
		Help: "Total number of login attempts by result.",
	}, []string{"result"})
)
