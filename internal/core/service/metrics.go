package service

import (
	"time"

	"github.com/storefront/platform/internal/core/ports"
)

type nopMetrics struct{}

func (nopMetrics) Registration(string)              {}
func (nopMetrics) Login(string)                     {}
func (nopMetrics) PasswordOp(string, time.Duration) {}
func (nopMetrics) AddressMutation(string)           {}
func (nopMetrics) ProductCreated(string)            {}
func (nopMetrics) ProductCache(string)              {}

func orNop(m ports.Metrics) ports.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
