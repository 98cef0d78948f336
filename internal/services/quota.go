package services

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/api/googleapi"
)

// QuotaCost is the number of units the YouTube Data API charges for one request.
type QuotaCost int

const (
	CostPlaylistsList     QuotaCost = 1
	CostPlaylistItemsList QuotaCost = 1
	CostPlaylistsInsert   QuotaCost = 50
	CostPlaylistItemsAdd  QuotaCost = 50
	CostSearch            QuotaCost = 100
)

// QuotaMeter keeps the running quota total of one run.
//
// Budget is informational: crossing it logs a warning once, calls are never refused.
type QuotaMeter struct {
	used   int
	budget int
	warned bool
	logger *log.Logger
}

func NewQuotaMeter(budget int, logger *log.Logger) *QuotaMeter {
	return &QuotaMeter{budget: budget, logger: logger}
}

// Charge adds cost to the running total.
func (m *QuotaMeter) Charge(op string, cost QuotaCost) {
	m.used += int(cost)
	if m.logger != nil {
		m.logger.Debug("quota charged", "op", op, "cost", int(cost), "used", m.used)
	}
	if m.budget > 0 && m.used > m.budget && !m.warned {
		m.warned = true
		if m.logger != nil {
			m.logger.Warn("daily quota budget crossed", "used", m.used, "budget", m.budget)
		}
	}
}

// Used returns the running total.
func (m *QuotaMeter) Used() int { return m.used }

// Remaining returns budget minus used, floored at zero. Zero budget means unknown and yields -1.
func (m *QuotaMeter) Remaining() int {
	if m.budget <= 0 {
		return -1
	}
	return max(m.budget-m.used, 0)
}

var quotaReasons = []string{"quotaExceeded", "dailyLimitExceeded"}

// IsQuotaExceeded reports whether err is a 403 from Google carrying a quota reason.
func IsQuotaExceeded(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != 403 {
		return false
	}

	for _, item := range gerr.Errors {
		for _, reason := range quotaReasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	for _, reason := range quotaReasons {
		if strings.Contains(gerr.Body, reason) || strings.Contains(gerr.Message, reason) {
			return true
		}
	}
	return false
}
