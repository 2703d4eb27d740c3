package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrDeckRejected is returned when a supplied deck fails the power audit.
var ErrDeckRejected = errors.New("deck failed power audit")

// CardClaim is a card as reported by an untrusted client. Power is kept raw
// so that fractional or non-numeric values can be rejected rather than
// silently truncated by the decoder.
type CardClaim struct {
	AssetID string          `json:"assetId"`
	Power   json.RawMessage `json:"power"`
}

// UnmarshalJSON never fails: an element that is not an object, or whose
// assetId is not a string, still becomes a claim so the audit can flag it.
// Non-string IDs are reported as their raw JSON text.
func (c *CardClaim) UnmarshalJSON(data []byte) error {
	var fields struct {
		AssetID json.RawMessage `json:"assetId"`
		Power   json.RawMessage `json:"power"`
	}
	*c = CardClaim{}
	if json.Unmarshal(data, &fields) != nil {
		return nil
	}
	c.Power = fields.Power
	if json.Unmarshal(fields.AssetID, &c.AssetID) != nil && len(fields.AssetID) > 0 {
		c.AssetID = string(fields.AssetID)
	}
	return nil
}

// AuditReport lists the claims that failed the power check.
type AuditReport struct {
	Valid        bool     `json:"valid"`
	InvalidCount int      `json:"invalidCount"`
	InvalidIDs   []string `json:"invalidIds"`
}

// ValidateCardPower checks a card against the default power range.
func ValidateCardPower(card Card) bool {
	return DefaultConfig().ValidCardPower(card)
}

// ValidCardPower reports whether the card's power lies within the rule bounds.
func (c Config) ValidCardPower(card Card) bool {
	return card.Power >= c.MinPower && card.Power <= c.MaxPower
}

// ValidPower reports whether a raw JSON value is an integer within the rule bounds.
func (c Config) ValidPower(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == 'n' {
		return false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return false
	}
	return f >= float64(c.MinPower) && f <= float64(c.MaxPower)
}

// Audit checks every claim and reports the offending asset IDs.
func (c Config) Audit(claims []CardClaim) AuditReport {
	report := AuditReport{InvalidIDs: []string{}}
	for _, claim := range claims {
		if !c.ValidPower(claim.Power) {
			report.InvalidIDs = append(report.InvalidIDs, claim.AssetID)
		}
	}
	report.InvalidCount = len(report.InvalidIDs)
	report.Valid = report.InvalidCount == 0
	return report
}

// AuditHand checks already-typed cards.
func (c Config) AuditHand(h Hand) AuditReport {
	report := AuditReport{InvalidIDs: []string{}}
	for _, card := range h {
		if !c.ValidCardPower(card) {
			report.InvalidIDs = append(report.InvalidIDs, card.ID)
		}
	}
	report.InvalidCount = len(report.InvalidIDs)
	report.Valid = report.InvalidCount == 0
	return report
}

// CheckHand returns ErrDeckRejected, naming the offending cards, when any card
// in the hand is outside the power bounds.
func (c Config) CheckHand(h Hand) error {
	report := c.AuditHand(h)
	if report.Valid {
		return nil
	}
	return fmt.Errorf("%w: %d card(s) outside power %d-%d: %s",
		ErrDeckRejected, report.InvalidCount, c.MinPower, c.MaxPower, strings.Join(report.InvalidIDs, ", "))
}
