package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashInput is the generation-affecting subset of Config. Filter-only
// options (Include) are left out so toggling them only re-filters.
type hashInput struct {
	Generate       GenerateConfig   `json:"generate"`
	Structure      StructureConfig  `json:"structure"`
	Processing     ProcessingConfig `json:"processing"`
	UI             UIConfig         `json:"ui"`
	OnSectionError Severity         `json:"onSectionError"`
}

// Hash returns the hex sha256 of a sorted-key JSON rendering of the
// generation-affecting configuration.
func Hash(cfg *Config) (string, error) {
	raw, err := json.Marshal(hashInput{
		Generate:       cfg.Generate,
		Structure:      cfg.Structure,
		Processing:     cfg.Processing,
		UI:             cfg.UI,
		OnSectionError: cfg.OnSectionError,
	})
	if err != nil {
		return "", err
	}
	// Round-trip through a generic value: encoding/json writes map keys sorted,
	// so the digest does not depend on struct field order.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	stable, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(stable)
	return hex.EncodeToString(sum[:]), nil
}
