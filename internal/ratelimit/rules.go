package ratelimit

import (
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/Proton-105/weathertime-bot/pkg/config"
)

// Rules encapsulates configured rate limits and helper methods.
type Rules struct {
	config config.RateLimitConfig
}

// NewRules constructs rate limiting rules from configuration settings.
func NewRules(cfg config.RateLimitConfig) *Rules {
	cfg.Whitelist = lo.Uniq(cfg.Whitelist)
	return &Rules{config: cfg}
}

// Enabled reports whether limits are enforced at all.
func (r *Rules) Enabled() bool {
	return r != nil && r.config.Enabled
}

// IsWhitelisted returns true if chatID bypasses rate limits.
func (r *Rules) IsWhitelisted(chatID int64) bool {
	return lo.Contains(r.config.Whitelist, chatID)
}

// PerChatLimit returns the per-chat rate limiting rule.
func (r *Rules) PerChatLimit() (int, time.Duration, error) {
	return parseRule(r.config.PerChat)
}

func parseRule(rule config.RateLimitRule) (int, time.Duration, error) {
	if rule.Window <= 0 {
		return rule.Limit, 0, errors.New("window duration is not set")
	}
	if rule.Limit <= 0 {
		return 0, rule.Window, errors.New("limit must be positive")
	}
	return rule.Limit, rule.Window, nil
}
